package models

// ExamCard (kartu ujian) lists the approved courses a student may sit exams for.
type ExamCard struct {
	Student    Student
	Term       Term
	Enrollment *Enrollment
}
