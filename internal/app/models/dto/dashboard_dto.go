package dto

import "github.com/myuniba/myuniba/internal/app/models"

// DashboardQuery selects the term and teaching day shown on a dashboard.
// Day defaults to today when omitted.
type DashboardQuery struct {
	Term string `form:"term" binding:"required,term" example:"20251"`
	Day  string `form:"day" binding:"omitempty,weekday" example:"Senin" enums:"Senin,Selasa,Rabu,Kamis,Jumat,Sabtu,Minggu"`
}

// StudentDashboardResponse is the student's landing page
type StudentDashboardResponse struct {
	Term         string             `json:"term" example:"20251"`
	Day          string             `json:"day" example:"Senin"`
	TodayClasses []OfferingResponse `json:"todayClasses"`
	UnpaidTotal  float64            `json:"unpaidTotal" example:"4500000"`
	LatestKHS    *KHSResponse       `json:"latestKhs,omitempty"`
}

// InstructorDashboardResponse is the instructor's landing page
type InstructorDashboardResponse struct {
	Term            string             `json:"term" example:"20251"`
	Day             string             `json:"day" example:"Senin"`
	TodayClasses    []OfferingResponse `json:"todayClasses"`
	PendingKRSCount int64              `json:"pendingKrsCount" example:"3"`
}

// NewStudentDashboardResponse converts a student dashboard
func NewStudentDashboardResponse(d *models.StudentDashboard) StudentDashboardResponse {
	resp := StudentDashboardResponse{
		Term:         d.Term.String(),
		Day:          string(d.Day),
		TodayClasses: NewOfferingListResponse(d.TodayClasses),
		UnpaidTotal:  d.UnpaidTotal,
	}
	if d.LatestKHS != nil {
		khs := NewKHSResponse(d.LatestKHS)
		resp.LatestKHS = &khs
	}
	return resp
}

// NewInstructorDashboardResponse converts an instructor dashboard
func NewInstructorDashboardResponse(d *models.InstructorDashboard) InstructorDashboardResponse {
	return InstructorDashboardResponse{
		Term:            d.Term.String(),
		Day:             string(d.Day),
		TodayClasses:    NewOfferingListResponse(d.TodayClasses),
		PendingKRSCount: d.PendingKRSCount,
	}
}
