package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/myuniba/myuniba/internal/app/auth"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
)

// memDB is an in-memory stand-in for the PostgreSQL repositories.
// Transactions are serialized and roll back by restoring a snapshot.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	courses     map[int64]models.Course
	instructors map[int64]models.Instructor
	students    map[int64]models.Student
	offerings   map[int64]models.Offering
	enrollments map[int64]models.Enrollment
	lines       map[int64]models.EnrollmentLine
	grades      map[int64]models.GradeRecord
	bills       []models.Bill
	nextID      int64
}

type memTxKey struct{}

func newMemDB() *memDB {
	return &memDB{
		courses:     map[int64]models.Course{},
		instructors: map[int64]models.Instructor{},
		students:    map[int64]models.Student{},
		offerings:   map[int64]models.Offering{},
		enrollments: map[int64]models.Enrollment{},
		lines:       map[int64]models.EnrollmentLine{},
		grades:      map[int64]models.GradeRecord{},
		nextID:      1000,
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m *memDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	offerings, enrollments, lines, grades := copyMap(m.offerings), copyMap(m.enrollments), copyMap(m.lines), copyMap(m.grades)
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.mu.Lock()
		m.offerings, m.enrollments, m.lines, m.grades = offerings, enrollments, lines, grades
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) seats(offeringID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offerings[offeringID].SeatsRemaining
}

func (m *memDB) withRelations(o models.Offering) *models.Offering {
	c := m.courses[o.CourseID]
	in := m.instructors[o.InstructorID]
	o.Course = &c
	o.Instructor = &in
	return &o
}

// offering store

type memOfferings struct{ *memDB }

func (m memOfferings) ReserveSeat(_ context.Context, offeringID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[offeringID]
	if !ok {
		return apperrors.ErrOfferingNotFound
	}
	if o.SeatsRemaining <= 0 {
		return apperrors.ErrCapacityExceeded
	}
	o.SeatsRemaining--
	m.offerings[offeringID] = o
	return nil
}

func (m memOfferings) ReleaseSeat(_ context.Context, offeringID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[offeringID]
	if !ok {
		return apperrors.ErrOfferingNotFound
	}
	if o.SeatsRemaining < o.Capacity {
		o.SeatsRemaining++
	}
	m.offerings[offeringID] = o
	return nil
}

func (m memOfferings) GetByID(_ context.Context, id int64) (*models.Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offerings[id]
	if !ok {
		return nil, apperrors.ErrOfferingNotFound
	}
	return m.withRelations(o), nil
}

func (m memOfferings) GetByIDs(_ context.Context, ids []int64) ([]*models.Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Offering{}
	for _, id := range ids {
		if o, ok := m.offerings[id]; ok {
			out = append(out, m.withRelations(o))
		}
	}
	return out, nil
}

func (m memOfferings) filter(keep func(models.Offering) bool) []*models.Offering {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Offering{}
	for _, o := range m.offerings {
		if keep(o) {
			out = append(out, m.withRelations(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m memOfferings) ListAvailable(_ context.Context, term models.Term, section string, offset uint64, limit int) ([]*models.Offering, int64, error) {
	all := m.filter(func(o models.Offering) bool {
		return o.Term == term && o.SeatsRemaining > 0 && (section == "" || o.SectionLabel == section)
	})
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []*models.Offering{}, total, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m memOfferings) ListByInstructor(_ context.Context, instructorID int64, term models.Term) ([]*models.Offering, error) {
	return m.filter(func(o models.Offering) bool {
		return o.InstructorID == instructorID && (term == "" || o.Term == term)
	}), nil
}

func (m memOfferings) ListByTerm(_ context.Context, term models.Term) ([]*models.Offering, error) {
	return m.filter(func(o models.Offering) bool { return o.Term == term }), nil
}

func (m memOfferings) Roster(_ context.Context, offeringID int64) ([]*models.RosterEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.offerings[offeringID]
	out := []*models.RosterEntry{}
	for _, l := range m.lines {
		if l.OfferingID != offeringID {
			continue
		}
		e := m.enrollments[l.EnrollmentID]
		entry := &models.RosterEntry{Student: m.students[e.StudentID], KRSStatus: e.Status}
		for _, g := range m.grades {
			if g.StudentID == e.StudentID && g.Term == o.Term && g.CourseID == o.CourseID {
				letter, numeric := g.LetterGrade, g.NumericGrade
				entry.LetterGrade, entry.NumericGrade = &letter, &numeric
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Student.ID < out[j].Student.ID })
	return out, nil
}

// enrollment store

type memEnrollments struct{ *memDB }

func (m memEnrollments) load(e models.Enrollment) *models.Enrollment {
	s := m.students[e.StudentID]
	e.Student = &s
	e.Lines = m.linesOf(e.ID)
	return &e
}

func (m memEnrollments) linesOf(enrollmentID int64) []*models.EnrollmentLine {
	out := []*models.EnrollmentLine{}
	for _, l := range m.lines {
		if l.EnrollmentID == enrollmentID {
			l := l
			l.Offering = m.withRelations(m.offerings[l.OfferingID])
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m memEnrollments) GetByStudentTerm(_ context.Context, studentID int64, term models.Term, _ bool) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.Term == term {
			return m.load(e), nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (m memEnrollments) GetByID(_ context.Context, id int64, _ bool) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enrollments[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return m.load(e), nil
}

func (m memEnrollments) Create(_ context.Context, e *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.enrollments {
		if other.StudentID == e.StudentID && other.Term == e.Term {
			return apperrors.ErrResourceAlreadyExists
		}
	}
	e.ID = m.id()
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	stored := *e
	stored.Lines, stored.Student = nil, nil
	m.enrollments[e.ID] = stored
	return nil
}

func (m memEnrollments) Update(_ context.Context, e *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.enrollments[e.ID]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	stored.Status = e.Status
	stored.TotalCredits = e.TotalCredits
	stored.RejectionNote = e.RejectionNote
	stored.DecidedBy = e.DecidedBy
	stored.UpdatedAt = time.Now()
	m.enrollments[e.ID] = stored
	return nil
}

func (m memEnrollments) ListLines(_ context.Context, enrollmentID int64) ([]*models.EnrollmentLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linesOf(enrollmentID), nil
}

func (m memEnrollments) AddLine(_ context.Context, line *models.EnrollmentLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lines {
		if l.EnrollmentID == line.EnrollmentID && l.OfferingID == line.OfferingID {
			return apperrors.ErrResourceAlreadyExists
		}
	}
	line.ID = m.id()
	stored := *line
	stored.Offering = nil
	m.lines[line.ID] = stored
	return nil
}

func (m memEnrollments) RemoveLine(_ context.Context, enrollmentID, offeringID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.lines {
		if l.EnrollmentID == enrollmentID && l.OfferingID == offeringID {
			delete(m.lines, id)
		}
	}
	return nil
}

func (m memEnrollments) SetSeatHeld(_ context.Context, enrollmentID, offeringID int64, held bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.lines {
		if l.EnrollmentID == enrollmentID && l.OfferingID == offeringID {
			l.SeatHeld = held
			m.lines[id] = l
		}
	}
	return nil
}

func (m memEnrollments) ListPendingForInstructor(_ context.Context, instructorID int64, term models.Term, offset uint64, limit int) ([]*models.Enrollment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Enrollment{}
	for _, e := range m.enrollments {
		if e.Status != models.EnrollmentPending || (term != "" && e.Term != term) {
			continue
		}
		loaded := m.load(e)
		if auth.AnyLineInstructorPolicy(loaded, instructorID) {
			out = append(out, loaded)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if offset >= uint64(len(out)) {
		return []*models.Enrollment{}, total, nil
	}
	end := int(offset) + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

// grade, bill and people stores

type memGrades struct{ *memDB }

func (m memGrades) Upsert(_ context.Context, g *models.GradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.grades {
		if existing.StudentID == g.StudentID && existing.Term == g.Term && existing.CourseID == g.CourseID {
			g.ID = id
		}
	}
	if g.ID == 0 {
		g.ID = m.id()
	}
	g.UpdatedAt = time.Now()
	stored := *g
	stored.Course = nil
	m.grades[g.ID] = stored
	return nil
}

func (m memGrades) ListByStudent(_ context.Context, studentID int64, term models.Term) ([]*models.GradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.GradeRecord{}
	for _, g := range m.grades {
		if g.StudentID != studentID || (term != "" && g.Term != term) {
			continue
		}
		g := g
		c := m.courses[g.CourseID]
		g.Course = &c
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Term != out[j].Term {
			return out[i].Term < out[j].Term
		}
		return out[i].Course.Code < out[j].Course.Code
	})
	return out, nil
}

type memBills struct{ *memDB }

func (m memBills) HasUnpaid(_ context.Context, studentID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bills {
		if b.StudentID == studentID && b.Status == models.BillUnpaid {
			return true, nil
		}
	}
	return false, nil
}

func (m memBills) TotalUnpaid(_ context.Context, studentID int64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0.0
	for _, b := range m.bills {
		if b.StudentID == studentID && b.Status == models.BillUnpaid {
			total += b.Amount
		}
	}
	return total, nil
}

func (m *memDB) addBill(studentID int64, term models.Term, amount float64, status models.BillStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills = append(m.bills, models.Bill{ID: m.id(), StudentID: studentID, Term: term, Kind: "ukt", Amount: amount, Status: status})
}

type memPeople struct{ *memDB }

func (m memPeople) GetStudent(_ context.Context, id int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("student not found")
	}
	return &s, nil
}

func (m memPeople) GetInstructor(_ context.Context, id int64) (*models.Instructor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.instructors[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("instructor not found")
	}
	return &in, nil
}

// fixture

const (
	term20251 models.Term = "20251"
	term20242 models.Term = "20242"

	instructorX int64 = 10
	instructorY int64 = 20
	instructorZ int64 = 30

	studentA int64 = 1
	studentB int64 = 2
	studentC int64 = 3

	// O1 is taught by X and has a single seat.
	offeringO1 int64 = 101
	// O2 is taught by Y.
	offeringO2 int64 = 102
	// O3 is taught by X.
	offeringO3 int64 = 103
	// O4 belongs to the previous term.
	offeringO4 int64 = 104
)

type fixture struct {
	db          *memDB
	authz       *auth.AuthorizationService
	offerings   OfferingService
	enrollments EnrollmentService
	grades      GradeService
	examCards   ExamCardService
	dashboards  DashboardService
}

type fixtureOption func(*EnrollmentOptions, *GradeOptions)

func withRestoreSeats() fixtureOption {
	return func(e *EnrollmentOptions, _ *GradeOptions) { e.RestoreSeatsOnCancel = true }
}

func withCanonicalGrades() fixtureOption {
	return func(_ *EnrollmentOptions, g *GradeOptions) { g.EnforceCanonicalMapping = true }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	m := newMemDB()

	m.instructors[instructorX] = models.Instructor{ID: instructorX, NIDN: "0010", FullName: "Dr. Xaverius"}
	m.instructors[instructorY] = models.Instructor{ID: instructorY, NIDN: "0020", FullName: "Dr. Yuliana"}
	m.instructors[instructorZ] = models.Instructor{ID: instructorZ, NIDN: "0030", FullName: "Dr. Zainal"}
	for id, name := range map[int64]string{studentA: "Ani", studentB: "Budi", studentC: "Citra"} {
		m.students[id] = models.Student{ID: id, NIM: "22010" + name, FullName: name, StudyProgram: "Informatika"}
	}
	m.courses[1] = models.Course{ID: 1, Code: "IF101", Name: "Algoritma", Credits: 3, SemesterLevel: 1}
	m.courses[2] = models.Course{ID: 2, Code: "IF102", Name: "Matematika Diskrit", Credits: 2, SemesterLevel: 1}
	m.courses[3] = models.Course{ID: 3, Code: "IF103", Name: "Basis Data", Credits: 4, SemesterLevel: 1}
	m.courses[4] = models.Course{ID: 4, Code: "IF099", Name: "Pengantar TI", Credits: 3, SemesterLevel: 1}

	m.offerings[offeringO1] = models.Offering{ID: offeringO1, CourseID: 1, InstructorID: instructorX, Term: term20251, SectionLabel: "A", DayOfWeek: "Senin", Capacity: 1, SeatsRemaining: 1}
	m.offerings[offeringO2] = models.Offering{ID: offeringO2, CourseID: 2, InstructorID: instructorY, Term: term20251, SectionLabel: "A", DayOfWeek: "Senin", Capacity: 30, SeatsRemaining: 30}
	m.offerings[offeringO3] = models.Offering{ID: offeringO3, CourseID: 3, InstructorID: instructorX, Term: term20251, SectionLabel: "B", DayOfWeek: "Rabu", Capacity: 30, SeatsRemaining: 30}
	m.offerings[offeringO4] = models.Offering{ID: offeringO4, CourseID: 4, InstructorID: instructorY, Term: term20242, SectionLabel: "A", DayOfWeek: "Senin", Capacity: 10, SeatsRemaining: 10}

	var eo EnrollmentOptions
	var gro GradeOptions
	for _, o := range opts {
		o(&eo, &gro)
	}

	authz := auth.NewAuthorizationService(memOfferings{m}, auth.AnyLineInstructorPolicy)
	grades := NewGradeService(m, memGrades{m}, memEnrollments{m}, authz, gro)
	return &fixture{
		db:          m,
		authz:       authz,
		offerings:   NewOfferingService(memOfferings{m}, authz),
		enrollments: NewEnrollmentService(m, memEnrollments{m}, memOfferings{m}, authz, eo),
		grades:      grades,
		examCards:   NewExamCardService(memPeople{m}, memEnrollments{m}, memBills{m}),
		dashboards:  NewDashboardService(memEnrollments{m}, memOfferings{m}, memGrades{m}, memBills{m}, grades),
	}
}

// assertSeatInvariant checks 0 <= seats_remaining <= capacity for every offering.
func (f *fixture) assertSeatInvariant(t *testing.T) {
	t.Helper()
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for id, o := range f.db.offerings {
		if o.SeatsRemaining < 0 || o.SeatsRemaining > o.Capacity {
			t.Errorf("offering %d has %d seats remaining of %d", id, o.SeatsRemaining, o.Capacity)
		}
	}
}
