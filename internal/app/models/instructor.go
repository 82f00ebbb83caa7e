package models

// Instructor defines the instructor model based on the 'instructors' table
type Instructor struct {
	ID       int64  `json:"id" db:"id" example:"1"`
	NIDN     string `json:"nidn" db:"nidn" example:"0012345678"` // national lecturer number
	FullName string `json:"fullName" db:"full_name" example:"Dr. Budi Santoso"`
}
