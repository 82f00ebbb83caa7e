package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/middleware"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

// asUser stands in for JWTAuth.
func asUser(id int64, role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRoleType, role)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	if data != nil {
		resp.Data = data
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func sampleKRS(status models.EnrollmentStatus) *models.Enrollment {
	return &models.Enrollment{
		ID: 10, StudentID: 1, Term: "20251", Status: status, TotalCredits: 3,
		Lines: []*models.EnrollmentLine{{
			EnrollmentID: 10, OfferingID: 101, SeatHeld: true,
			Offering: &models.Offering{ID: 101, Term: "20251", SectionLabel: "A", Capacity: 40, SeatsRemaining: 39,
				Course: &models.Course{ID: 1, Code: "IF101", Name: "Algoritma dan Pemrograman", Credits: 3}},
		}},
	}
}

func newKRSRouter(offerings *stubOfferingService, enrollments *stubEnrollmentService) *gin.Engine {
	c := NewKRSController(offerings, enrollments)
	r := gin.New()
	g := r.Group("", asUser(1, models.RoleStudent))
	g.GET("/krs/available-courses", c.ListAvailableCourses)
	g.GET("/krs", c.GetKRS)
	g.PUT("/krs/draft", c.SaveDraft)
	g.POST("/krs/submit", c.SubmitKRS)
	g.POST("/krs/request-approval", c.RequestApproval)
	g.POST("/krs/cancel-request", c.CancelRequest)
	g.POST("/krs/reopen", c.Reopen)
	return r
}

func TestKRSController_ListAvailableCourses(t *testing.T) {
	var gotSection string
	var gotPage, gotSize int
	offerings := &stubOfferingService{
		listAvailable: func(term models.Term, section string, page, size int) ([]*models.Offering, int64, error) {
			gotSection, gotPage, gotSize = section, page, size
			return []*models.Offering{{ID: 101, Term: term, Capacity: 40, SeatsRemaining: 3}}, 21, nil
		},
	}
	r := newKRSRouter(offerings, &stubEnrollmentService{})

	w := doJSON(r, http.MethodGet, "/krs/available-courses?term=20251&section=B&page=2&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "B", gotSection)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 10, gotSize)

	var page struct {
		Items      []dto.OfferingResponse `json:"items"`
		Pagination dto.PaginationInfo     `json:"pagination"`
	}
	resp := decode(t, w, &page)
	assert.True(t, resp.Success)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].SeatsRemaining)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	w = doJSON(r, http.MethodGet, "/krs/available-courses?term=20253", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKRSController_SaveDraftAndSubmit(t *testing.T) {
	enrollments := &stubEnrollmentService{result: sampleKRS(models.EnrollmentDraft)}
	r := newKRSRouter(nil, enrollments)

	w := doJSON(r, http.MethodPut, "/krs/draft", dto.SaveDraftRequest{Term: "20251", OfferingIDs: []int64{101}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{101}, enrollments.offeringIDs)
	assert.Equal(t, int64(1), enrollments.studentID)

	var krs dto.KRSResponse
	decode(t, w, &krs)
	assert.Equal(t, "draft", krs.Status)
	require.Len(t, krs.Lines, 1)
	assert.Equal(t, "IF101", krs.Lines[0].CourseCode)
	assert.True(t, krs.Lines[0].SeatHeld)

	w = doJSON(r, http.MethodPost, "/krs/submit", dto.SubmitKRSRequest{Term: "20251"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty selection is rejected at binding")

	enrollments.err = fmt.Errorf("offering 101: %w", apperrors.ErrCapacityExceeded)
	w = doJSON(r, http.MethodPost, "/krs/submit", dto.SubmitKRSRequest{Term: "20251", OfferingIDs: []int64{101}})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode(t, w, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeCapacityExceeded, resp.Error.Code)
}

func TestKRSController_Transitions(t *testing.T) {
	tests := []struct {
		path string
		call string
	}{
		{"/krs/request-approval", "Submit"},
		{"/krs/cancel-request", "Cancel"},
		{"/krs/reopen", "Reopen"},
	}
	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			enrollments := &stubEnrollmentService{result: sampleKRS(models.EnrollmentPending)}
			r := newKRSRouter(nil, enrollments)

			w := doJSON(r, http.MethodPost, tt.path, dto.TermRequest{Term: "20251"})
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, []string{tt.call}, enrollments.calls)
			assert.Equal(t, models.Term("20251"), enrollments.term)

			enrollments.err = apperrors.ErrInvalidState
			w = doJSON(r, http.MethodPost, tt.path, dto.TermRequest{Term: "20251"})
			assert.Equal(t, http.StatusConflict, w.Code)
		})
	}
}

func TestKRSController_GetKRSNotFound(t *testing.T) {
	r := newKRSRouter(nil, &stubEnrollmentService{err: apperrors.ErrEnrollmentNotFound})

	w := doJSON(r, http.MethodGet, "/krs?term=20251", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/krs", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newLecturerRouter(enrollments *stubEnrollmentService, offerings *stubOfferingService, grades *stubGradeService) *gin.Engine {
	c := NewLecturerController(enrollments, offerings)
	gc := NewGradeController(grades)
	r := gin.New()
	g := r.Group("/dosen", asUser(10, models.RoleInstructor))
	g.GET("/krs-pending", c.ListPendingKRS)
	g.POST("/krs/:id/approve", c.ApproveKRS)
	g.POST("/krs/:id/reject", c.RejectKRS)
	g.GET("/classes", c.ListClasses)
	g.GET("/classes/:id/students", c.ClassStudents)
	g.POST("/grades", gc.SubmitGrades)
	return r
}

func TestLecturerController_ApproveReject(t *testing.T) {
	enrollments := &stubEnrollmentService{result: sampleKRS(models.EnrollmentApproved)}
	r := newLecturerRouter(enrollments, nil, nil)

	w := doJSON(r, http.MethodPost, "/dosen/krs/10/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(10), enrollments.studentID, "acting instructor")

	w = doJSON(r, http.MethodPost, "/dosen/krs/abc/approve", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/dosen/krs/10/reject", dto.RejectKRSRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/dosen/krs/10/reject", dto.RejectKRSRequest{Note: "bentrok jadwal"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bentrok jadwal", enrollments.note)

	enrollments.err = apperrors.NewForbiddenError("you are not allowed to decide on this KRS")
	w = doJSON(r, http.MethodPost, "/dosen/krs/10/approve", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLecturerController_Listings(t *testing.T) {
	enrollments := &stubEnrollmentService{pending: []*models.Enrollment{sampleKRS(models.EnrollmentPending)}}
	offerings := &stubOfferingService{
		listByInstructor: func(instructorID int64, term models.Term) ([]*models.Offering, error) {
			assert.Equal(t, models.Term(""), term)
			return []*models.Offering{{ID: 101, InstructorID: instructorID}}, nil
		},
		roster: func(offeringID, instructorID int64) ([]*models.RosterEntry, error) {
			grade := models.GradeA
			return []*models.RosterEntry{{Student: models.Student{ID: 1, FullName: "Siti Rahma"}, KRSStatus: models.EnrollmentApproved, LetterGrade: &grade}}, nil
		},
	}
	r := newLecturerRouter(enrollments, offerings, nil)

	w := doJSON(r, http.MethodGet, "/dosen/krs-pending?term=20251", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Term("20251"), enrollments.term)

	w = doJSON(r, http.MethodGet, "/dosen/krs-pending?term=bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/dosen/classes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var roster []dto.RosterEntryResponse
	w = doJSON(r, http.MethodGet, "/dosen/classes/101/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &roster)
	require.Len(t, roster, 1)
	require.NotNil(t, roster[0].LetterGrade)
	assert.Equal(t, "A", *roster[0].LetterGrade)
}

func TestGradeController_SubmitGrades(t *testing.T) {
	grades := &stubGradeService{results: []services.GradeEntryResult{
		{StudentID: 1, Outcome: services.GradeWritten},
		{StudentID: 2, Outcome: services.GradeSkipped, Reason: "KRS is not approved"},
	}}
	r := newLecturerRouter(nil, nil, grades)

	body := dto.SubmitGradesRequest{OfferingID: 101, Entries: []dto.GradeEntryRequest{
		{StudentID: 1, LetterGrade: "A", NumericGrade: grade(4)},
		{StudentID: 2, LetterGrade: "B+", NumericGrade: grade(3.3)},
	}}
	w := doJSON(r, http.MethodPost, "/dosen/grades", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, grades.entries, 2)
	assert.Equal(t, models.GradeBPlus, grades.entries[1].LetterGrade)

	var summary dto.SubmitGradesResponse
	decode(t, w, &summary)
	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "KRS is not approved", summary.Results[1].Reason)

	body.Entries[0].LetterGrade = "A+"
	w = doJSON(r, http.MethodPost, "/dosen/grades", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body.Entries[0].LetterGrade = "A"
	body.Entries[0].NumericGrade = grade(4.5)
	w = doJSON(r, http.MethodPost, "/dosen/grades", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradeController_SubmitGradesNumericGradeRequired(t *testing.T) {
	grades := &stubGradeService{results: []services.GradeEntryResult{{StudentID: 3, Outcome: services.GradeWritten}}}
	r := newLecturerRouter(nil, nil, grades)

	w := doJSON(r, http.MethodPost, "/dosen/grades", gin.H{
		"offeringId": 1,
		"entries":    []gin.H{{"studentId": 3, "letterGrade": "A"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, grades.entries, "service must not be called")

	// an explicit zero is a real grade
	w = doJSON(r, http.MethodPost, "/dosen/grades", gin.H{
		"offeringId": 1,
		"entries":    []gin.H{{"studentId": 3, "letterGrade": "E", "numericGrade": 0}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, grades.entries, 1)
	assert.Equal(t, models.GradeE, grades.entries[0].LetterGrade)
	assert.Zero(t, grades.entries[0].NumericGrade)
}

func grade(v float64) *float64 { return &v }

func TestGradeAndExamCardControllers_StudentReads(t *testing.T) {
	grades := &stubGradeService{khs: &models.KHS{
		StudentID: 1, Term: "20251", TotalCredits: 3, IPS: 4, IPK: 3.5,
		Lines: []*models.GradeRecord{{CourseID: 1, LetterGrade: models.GradeA, NumericGrade: 4, Course: &models.Course{Code: "IF101", Credits: 3}}},
	}}
	cards := &stubExamCardService{err: apperrors.ErrExamCardUnavailable}

	r := gin.New()
	g := r.Group("", asUser(1, models.RoleStudent))
	g.GET("/grades", NewGradeController(grades).GetKHS)
	g.GET("/exam-card", NewExamCardController(cards).GetExamCard)

	w := doJSON(r, http.MethodGet, "/grades?term=20251", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var khs dto.KHSResponse
	decode(t, w, &khs)
	assert.InDelta(t, 3.5, khs.IPK, 0.001)
	require.Len(t, khs.Grades, 1)
	assert.Equal(t, "IF101", khs.Grades[0].CourseCode)

	w = doJSON(r, http.MethodGet, "/exam-card?term=20251", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	cards.err = nil
	cards.card = &models.ExamCard{Student: models.Student{ID: 1, NIM: "2201010001"}, Term: "20251", Enrollment: sampleKRS(models.EnrollmentApproved)}
	w = doJSON(r, http.MethodGet, "/exam-card?term=20251", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var card dto.ExamCardResponse
	decode(t, w, &card)
	assert.Equal(t, "2201010001", card.NIM)
	require.Len(t, card.Courses, 1)
}

func TestCurrentUserMissing(t *testing.T) {
	r := gin.New()
	r.GET("/krs", NewKRSController(nil, &stubEnrollmentService{}).GetKRS)

	w := doJSON(r, http.MethodGet, "/krs?term=20251", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
