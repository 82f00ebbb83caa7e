package models

// Course is a catalogue entry; Credits is its SKS weight.
type Course struct {
	ID            int64  `json:"id" db:"id"`
	Code          string `json:"code" db:"code"`
	Name          string `json:"name" db:"name"`
	Credits       int    `json:"credits" db:"credits"`
	SemesterLevel int    `json:"semesterLevel" db:"semester_level"`
}

// Offering is a scheduled section of a course in a given term, taught by one instructor.
// Invariant: 0 <= SeatsRemaining <= Capacity.
type Offering struct {
	ID             int64  `json:"id" db:"id"`
	CourseID       int64  `json:"courseId" db:"course_id"`
	InstructorID   int64  `json:"instructorId" db:"instructor_id"`
	Term           Term   `json:"term" db:"term"`
	SectionLabel   string `json:"sectionLabel" db:"section_label"`
	DayOfWeek      string `json:"dayOfWeek,omitempty" db:"day_of_week"`
	StartsAt       string `json:"startsAt,omitempty" db:"starts_at"`
	Room           string `json:"room,omitempty" db:"room"`
	Capacity       int    `json:"capacity" db:"capacity"`
	SeatsRemaining int    `json:"seatsRemaining" db:"seats_remaining"`

	// Relations (populated when needed)
	Course     *Course     `json:"course,omitempty"`
	Instructor *Instructor `json:"instructor,omitempty"`
}

// TaughtBy reports whether instructorID teaches the offering.
func (o *Offering) TaughtBy(instructorID int64) bool {
	return o != nil && o.InstructorID == instructorID
}
