package models

import "time"

// EnrollmentStatus is the lifecycle state of a KRS.
type EnrollmentStatus string

const (
	EnrollmentDraft    EnrollmentStatus = "draft"
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

// Enrollment (KRS) is one student's course selection for a term.
// At most one exists per (StudentID, Term).
type Enrollment struct {
	ID            int64            `json:"id" db:"id"`
	StudentID     int64            `json:"studentId" db:"student_id"`
	Term          Term             `json:"term" db:"term"`
	Status        EnrollmentStatus `json:"status" db:"status"`
	TotalCredits  int              `json:"totalCredits" db:"total_credits"`
	RejectionNote *string          `json:"rejectionNote,omitempty" db:"rejection_note"`
	DecidedBy     *int64           `json:"decidedBy,omitempty" db:"decided_by"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time        `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Lines   []*EnrollmentLine `json:"lines,omitempty"`
	Student *Student          `json:"student,omitempty"`
}

// OfferingIDs returns the selected offering ids in line order.
func (e *Enrollment) OfferingIDs() []int64 {
	ids := make([]int64, 0, len(e.Lines))
	for _, l := range e.Lines {
		ids = append(ids, l.OfferingID)
	}
	return ids
}

// HasOffering reports whether the selection contains offeringID.
func (e *Enrollment) HasOffering(offeringID int64) bool {
	for _, l := range e.Lines {
		if l.OfferingID == offeringID {
			return true
		}
	}
	return false
}

// EnrollmentLine (KRS detail) joins an enrollment to an offering.
// SeatHeld means the line currently holds one seat of the offering.
type EnrollmentLine struct {
	ID           int64 `json:"id" db:"id"`
	EnrollmentID int64 `json:"enrollmentId" db:"enrollment_id"`
	OfferingID   int64 `json:"offeringId" db:"offering_id"`
	SeatHeld     bool  `json:"seatHeld" db:"seat_held"`

	Offering *Offering `json:"offering,omitempty"`
}

// RosterEntry is one student enrolled in an offering, with the grade recorded so far.
type RosterEntry struct {
	Student      Student
	KRSStatus    EnrollmentStatus
	LetterGrade  *LetterGrade
	NumericGrade *float64
}
