package dto

import "github.com/myuniba/myuniba/internal/app/models"

// GradeEntryRequest is one student's grade in a submission batch
type GradeEntryRequest struct {
	StudentID    int64    `json:"studentId" binding:"required,gt=0" example:"1"`
	LetterGrade  string   `json:"letterGrade" binding:"required,lettergrade" example:"A"`
	NumericGrade *float64 `json:"numericGrade" binding:"required,gte=0,lte=4" example:"4"`
}

// SubmitGradesRequest submits grades for one offering taught by the caller
type SubmitGradesRequest struct {
	OfferingID int64               `json:"offeringId" binding:"required,gt=0" example:"1"`
	Entries    []GradeEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// GradeEntryResultResponse reports what happened to one submitted entry
type GradeEntryResultResponse struct {
	StudentID int64  `json:"studentId" example:"1"`
	Outcome   string `json:"outcome" example:"written" enums:"written,skipped"`
	Reason    string `json:"reason,omitempty" example:"no approved KRS containing this offering"`
}

// SubmitGradesResponse summarises a grade submission
type SubmitGradesResponse struct {
	OfferingID int64                      `json:"offeringId" example:"1"`
	Written    int                        `json:"written" example:"2"`
	Skipped    int                        `json:"skipped" example:"1"`
	Results    []GradeEntryResultResponse `json:"results"`
}

// KHSLineResponse is one course on a KHS
type KHSLineResponse struct {
	CourseID     int64   `json:"courseId" example:"7"`
	CourseCode   string  `json:"courseCode" example:"IF101"`
	CourseName   string  `json:"courseName" example:"Algoritma dan Pemrograman"`
	Credits      int     `json:"credits" example:"3"`
	LetterGrade  string  `json:"letterGrade" example:"A"`
	NumericGrade float64 `json:"numericGrade" example:"4"`
}

// KHSResponse is a student's grade report for a term
type KHSResponse struct {
	StudentID    int64             `json:"studentId" example:"1"`
	Term         string            `json:"term" example:"20251"`
	Grades       []KHSLineResponse `json:"grades"`
	TotalCredits int               `json:"totalCredits" example:"9"`
	IPS          float64           `json:"ips" example:"3.67"`
	IPK          float64           `json:"ipk" example:"3.52"`
}

// NewKHSResponse converts a KHS report
func NewKHSResponse(k *models.KHS) KHSResponse {
	resp := KHSResponse{
		StudentID:    k.StudentID,
		Term:         k.Term.String(),
		Grades:       make([]KHSLineResponse, 0, len(k.Lines)),
		TotalCredits: k.TotalCredits,
		IPS:          k.IPS,
		IPK:          k.IPK,
	}
	for _, g := range k.Lines {
		line := KHSLineResponse{
			CourseID:     g.CourseID,
			LetterGrade:  string(g.LetterGrade),
			NumericGrade: g.NumericGrade,
		}
		if g.Course != nil {
			line.CourseCode = g.Course.Code
			line.CourseName = g.Course.Name
			line.Credits = g.Course.Credits
		}
		resp.Grades = append(resp.Grades, line)
	}
	return resp
}

// NewRosterResponse converts an offering's class list
func NewRosterResponse(entries []*models.RosterEntry) []RosterEntryResponse {
	out := make([]RosterEntryResponse, 0, len(entries))
	for _, e := range entries {
		r := RosterEntryResponse{
			StudentID:    e.Student.ID,
			NIM:          e.Student.NIM,
			FullName:     e.Student.FullName,
			KRSStatus:    string(e.KRSStatus),
			NumericGrade: e.NumericGrade,
		}
		if e.LetterGrade != nil {
			letter := string(*e.LetterGrade)
			r.LetterGrade = &letter
		}
		out = append(out, r)
	}
	return out
}
