package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID           int64  `json:"id" db:"id" example:"1"`
	NIM          string `json:"nim" db:"nim" example:"2201010001"` // student registration number
	FullName     string `json:"fullName" db:"full_name" example:"Siti Rahma"`
	StudyProgram string `json:"studyProgram" db:"study_program" example:"Informatika"`
}
