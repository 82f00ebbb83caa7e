package dto

import "github.com/myuniba/myuniba/internal/app/models"

// ExamCardCourseResponse is one course printed on an exam card
type ExamCardCourseResponse struct {
	CourseCode     string `json:"courseCode" example:"IF101"`
	CourseName     string `json:"courseName" example:"Algoritma dan Pemrograman"`
	Credits        int    `json:"credits" example:"3"`
	SectionLabel   string `json:"sectionLabel" example:"A"`
	InstructorName string `json:"instructorName" example:"Dr. Budi Santoso"`
}

// ExamCardResponse is a student's exam card for a term
type ExamCardResponse struct {
	StudentID    int64                    `json:"studentId" example:"1"`
	NIM          string                   `json:"nim" example:"2201010001"`
	FullName     string                   `json:"fullName" example:"Siti Rahma"`
	StudyProgram string                   `json:"studyProgram" example:"Informatika"`
	Term         string                   `json:"term" example:"20251"`
	TotalCredits int                      `json:"totalCredits" example:"9"`
	Courses      []ExamCardCourseResponse `json:"courses"`
}

// NewExamCardResponse converts an exam card
func NewExamCardResponse(card *models.ExamCard) ExamCardResponse {
	resp := ExamCardResponse{
		StudentID:    card.Student.ID,
		NIM:          card.Student.NIM,
		FullName:     card.Student.FullName,
		StudyProgram: card.Student.StudyProgram,
		Term:         card.Term.String(),
		Courses:      []ExamCardCourseResponse{},
	}
	if card.Enrollment == nil {
		return resp
	}
	resp.TotalCredits = card.Enrollment.TotalCredits
	for _, l := range card.Enrollment.Lines {
		if l.Offering == nil {
			continue
		}
		c := ExamCardCourseResponse{SectionLabel: l.Offering.SectionLabel}
		if l.Offering.Course != nil {
			c.CourseCode = l.Offering.Course.Code
			c.CourseName = l.Offering.Course.Name
			c.Credits = l.Offering.Course.Credits
		}
		if l.Offering.Instructor != nil {
			c.InstructorName = l.Offering.Instructor.FullName
		}
		resp.Courses = append(resp.Courses, c)
	}
	return resp
}
