package models

import (
	"math"
	"time"
)

// LetterGrade is one of the grades accepted on a KHS.
type LetterGrade string

const (
	GradeA      LetterGrade = "A"
	GradeAMinus LetterGrade = "A-"
	GradeBPlus  LetterGrade = "B+"
	GradeB      LetterGrade = "B"
	GradeBMinus LetterGrade = "B-"
	GradeCPlus  LetterGrade = "C+"
	GradeC      LetterGrade = "C"
	GradeD      LetterGrade = "D"
	GradeE      LetterGrade = "E"
)

// canonicalPoints is the grade point of each letter.
var canonicalPoints = map[LetterGrade]float64{
	GradeA:      4.0,
	GradeAMinus: 3.7,
	GradeBPlus:  3.3,
	GradeB:      3.0,
	GradeBMinus: 2.7,
	GradeCPlus:  2.3,
	GradeC:      2.0,
	GradeD:      1.0,
	GradeE:      0.0,
}

// Valid reports whether g is an accepted letter grade.
func (g LetterGrade) Valid() bool {
	_, ok := canonicalPoints[g]
	return ok
}

// CanonicalPoints returns the grade point for g.
func (g LetterGrade) CanonicalPoints() (float64, bool) {
	p, ok := canonicalPoints[g]
	return p, ok
}

// MatchesCanonical reports whether numeric equals the canonical value of g (to two decimals).
func (g LetterGrade) MatchesCanonical(numeric float64) bool {
	p, ok := canonicalPoints[g]
	return ok && math.Abs(p-numeric) < 0.005
}

// GradeRecord is one KHS line: a student's grade for a course in a term.
// Upsert key is (StudentID, Term, CourseID).
type GradeRecord struct {
	ID           int64       `json:"id" db:"id"`
	StudentID    int64       `json:"studentId" db:"student_id"`
	Term         Term        `json:"term" db:"term"`
	CourseID     int64       `json:"courseId" db:"course_id"`
	OfferingID   int64       `json:"offeringId" db:"offering_id"`
	LetterGrade  LetterGrade `json:"letterGrade" db:"letter_grade"`
	NumericGrade float64     `json:"numericGrade" db:"numeric_grade"`
	GradedBy     int64       `json:"gradedBy" db:"graded_by"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`

	Course *Course `json:"course,omitempty"`
}

// KHS is a student's grade report for a term.
type KHS struct {
	StudentID    int64
	Term         Term
	Lines        []*GradeRecord
	TotalCredits int
	IPS          float64 // term GPA
	IPK          float64 // cumulative GPA
}

// GradePointAverage returns the credit-weighted mean numeric grade of records.
// Records without a loaded course are ignored.
func GradePointAverage(records []*GradeRecord) (avg float64, credits int) {
	var points float64
	for _, r := range records {
		if r.Course == nil || r.Course.Credits <= 0 {
			continue
		}
		points += r.NumericGrade * float64(r.Course.Credits)
		credits += r.Course.Credits
	}
	if credits == 0 {
		return 0, 0
	}
	return math.Round(points/float64(credits)*100) / 100, credits
}
