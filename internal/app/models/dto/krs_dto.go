package dto

import (
	"time"

	"github.com/myuniba/myuniba/internal/app/models"
)

// TermQuery binds the term query parameter shared by student endpoints
type TermQuery struct {
	Term string `form:"term" binding:"required,term" example:"20251"`
}

// OptionalTermQuery narrows instructor listings to one term when set
type OptionalTermQuery struct {
	Term string `form:"term" binding:"omitempty,term" example:"20251"`
}

// AvailableOfferingsQuery filters the available-course listing
type AvailableOfferingsQuery struct {
	Term    string `form:"term" binding:"required,term" example:"20251"`
	Section string `form:"section" binding:"omitempty,max=10" example:"A"`
}

// SaveDraftRequest replaces the offerings selected on a draft KRS
type SaveDraftRequest struct {
	Term        string  `json:"term" binding:"required,term" example:"20251"`
	OfferingIDs []int64 `json:"offeringIds" binding:"omitempty,dive,gt=0" example:"1,2,3"`
}

// SubmitKRSRequest saves the selection and requests approval in one call
type SubmitKRSRequest struct {
	Term        string  `json:"term" binding:"required,term" example:"20251"`
	OfferingIDs []int64 `json:"offeringIds" binding:"required,min=1,dive,gt=0" example:"1,2,3"`
}

// TermRequest identifies the KRS a state transition applies to
type TermRequest struct {
	Term string `json:"term" binding:"required,term" example:"20251"`
}

// RejectKRSRequest carries the instructor's rejection note
type RejectKRSRequest struct {
	Note string `json:"note" binding:"required,max=500" example:"Please drop one of the overlapping sections"`
}

// OfferingResponse represents an offering section with its course and instructor
type OfferingResponse struct {
	ID             int64  `json:"id" example:"1"`
	Term           string `json:"term" example:"20251"`
	SectionLabel   string `json:"sectionLabel" example:"A"`
	CourseID       int64  `json:"courseId" example:"7"`
	CourseCode     string `json:"courseCode" example:"IF101"`
	CourseName     string `json:"courseName" example:"Algoritma dan Pemrograman"`
	Credits        int    `json:"credits" example:"3"`
	InstructorID   int64  `json:"instructorId" example:"2"`
	InstructorName string `json:"instructorName,omitempty" example:"Dr. Budi Santoso"`
	DayOfWeek      string `json:"dayOfWeek,omitempty" example:"Senin"`
	StartsAt       string `json:"startsAt,omitempty" example:"08:00"`
	Room           string `json:"room,omitempty" example:"R.301"`
	Capacity       int    `json:"capacity" example:"40"`
	SeatsRemaining int    `json:"seatsRemaining" example:"12"`
}

// KRSLineResponse represents one selected offering of a KRS
type KRSLineResponse struct {
	OfferingResponse
	SeatHeld bool `json:"seatHeld" example:"true"`
}

// KRSResponse represents a student's KRS for a term
type KRSResponse struct {
	ID            int64             `json:"id" example:"10"`
	StudentID     int64             `json:"studentId" example:"1"`
	StudentName   string            `json:"studentName,omitempty" example:"Siti Rahma"`
	StudentNIM    string            `json:"studentNim,omitempty" example:"2201010001"`
	Term          string            `json:"term" example:"20251"`
	Status        string            `json:"status" example:"pending" enums:"draft,pending,approved,rejected"`
	TotalCredits  int               `json:"totalCredits" example:"9"`
	RejectionNote *string           `json:"rejectionNote,omitempty"`
	Lines         []KRSLineResponse `json:"lines"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// RosterEntryResponse is one student of an offering's class list
type RosterEntryResponse struct {
	StudentID    int64    `json:"studentId" example:"1"`
	NIM          string   `json:"nim" example:"2201010001"`
	FullName     string   `json:"fullName" example:"Siti Rahma"`
	KRSStatus    string   `json:"krsStatus" example:"approved"`
	LetterGrade  *string  `json:"letterGrade,omitempty" example:"A"`
	NumericGrade *float64 `json:"numericGrade,omitempty" example:"4"`
}

// NewOfferingResponse converts an offering (with relations loaded when available)
func NewOfferingResponse(o *models.Offering) OfferingResponse {
	resp := OfferingResponse{
		ID:             o.ID,
		Term:           o.Term.String(),
		SectionLabel:   o.SectionLabel,
		CourseID:       o.CourseID,
		InstructorID:   o.InstructorID,
		DayOfWeek:      o.DayOfWeek,
		StartsAt:       o.StartsAt,
		Room:           o.Room,
		Capacity:       o.Capacity,
		SeatsRemaining: o.SeatsRemaining,
	}
	if o.Course != nil {
		resp.CourseCode = o.Course.Code
		resp.CourseName = o.Course.Name
		resp.Credits = o.Course.Credits
	}
	if o.Instructor != nil {
		resp.InstructorName = o.Instructor.FullName
	}
	return resp
}

// NewOfferingListResponse converts a slice of offerings
func NewOfferingListResponse(offerings []*models.Offering) []OfferingResponse {
	out := make([]OfferingResponse, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, NewOfferingResponse(o))
	}
	return out
}

// NewKRSResponse converts an enrollment with its lines
func NewKRSResponse(e *models.Enrollment) KRSResponse {
	resp := KRSResponse{
		ID:            e.ID,
		StudentID:     e.StudentID,
		Term:          e.Term.String(),
		Status:        string(e.Status),
		TotalCredits:  e.TotalCredits,
		RejectionNote: e.RejectionNote,
		Lines:         make([]KRSLineResponse, 0, len(e.Lines)),
		UpdatedAt:     e.UpdatedAt,
	}
	if e.Student != nil {
		resp.StudentName = e.Student.FullName
		resp.StudentNIM = e.Student.NIM
	}
	for _, l := range e.Lines {
		line := KRSLineResponse{SeatHeld: l.SeatHeld}
		if l.Offering != nil {
			line.OfferingResponse = NewOfferingResponse(l.Offering)
		} else {
			line.ID = l.OfferingID
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}
