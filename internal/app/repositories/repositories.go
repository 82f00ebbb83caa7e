package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	OfferingRepository   *OfferingRepository
	EnrollmentRepository *EnrollmentRepository
	GradeRepository      *GradeRepository
	BillRepository       *BillRepository
	PeopleRepository     *PeopleRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		OfferingRepository:   NewOfferingRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		GradeRepository:      NewGradeRepository(db),
		BillRepository:       NewBillRepository(db),
		PeopleRepository:     NewPeopleRepository(db),
	}
}
