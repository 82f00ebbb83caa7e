package models

import "time"

// Weekday is a teaching day as stored in offerings.day_of_week.
type Weekday string

const (
	Monday    Weekday = "Senin"
	Tuesday   Weekday = "Selasa"
	Wednesday Weekday = "Rabu"
	Thursday  Weekday = "Kamis"
	Friday    Weekday = "Jumat"
	Saturday  Weekday = "Sabtu"
	Sunday    Weekday = "Minggu"
)

var weekdays = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf returns the teaching day of t.
func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

// Valid reports whether d is one of the seven day names.
func (d Weekday) Valid() bool {
	for _, w := range weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// StudentDashboard is the student's landing page for a term and day.
type StudentDashboard struct {
	StudentID    int64
	Term         Term
	Day          Weekday
	TodayClasses []*Offering
	// UnpaidTotal sums every bill still marked unpaid, in any term.
	UnpaidTotal float64
	// LatestKHS is the most recent graded term up to Term, nil when nothing is graded yet.
	LatestKHS *KHS
}

// InstructorDashboard is the instructor's landing page for a term and day.
type InstructorDashboard struct {
	InstructorID    int64
	Term            Term
	Day             Weekday
	TodayClasses    []*Offering
	PendingKRSCount int64
}
