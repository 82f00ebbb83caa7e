package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/middleware"
)

// DashboardController serves the student and instructor landing pages
type DashboardController struct {
	dashboardService services.DashboardService
	now              func() time.Time
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

func (c *DashboardController) bindQuery(ctx *gin.Context) (models.Term, models.Weekday, bool) {
	var query dto.DashboardQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return "", "", false
	}
	day := models.Weekday(query.Day)
	if day == "" {
		day = models.WeekdayOf(c.now())
	}
	return models.Term(query.Term), day, true
}

// StudentDashboard returns the caller's classes for the day, unpaid bills and latest KHS
// @Summary Student dashboard
// @Description Classes on the given day from the term's KRS, the total of unpaid bills and the latest KHS up to the term
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param term query string true "Term" example(20251)
// @Param day query string false "Teaching day, defaults to today" Enums(Senin,Selasa,Rabu,Kamis,Jumat,Sabtu,Minggu)
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboardResponse} "Dashboard retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term or day"
// @Router /dashboard [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	term, day, ok := c.bindQuery(ctx)
	if !ok {
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	dash, err := c.dashboardService.StudentDashboard(ctx.Request.Context(), studentID, term, day)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentDashboardResponse(dash), "Dashboard retrieved successfully"))
}

// InstructorDashboard returns the caller's classes for the day and the pending KRS count
// @Summary Instructor dashboard
// @Description Classes taught on the given day in the term and the number of KRS awaiting the caller's decision
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param term query string true "Term" example(20251)
// @Param day query string false "Teaching day, defaults to today" Enums(Senin,Selasa,Rabu,Kamis,Jumat,Sabtu,Minggu)
// @Success 200 {object} dto.APIResponse{data=dto.InstructorDashboardResponse} "Dashboard retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term or day"
// @Router /dosen/dashboard [get]
func (c *DashboardController) InstructorDashboard(ctx *gin.Context) {
	term, day, ok := c.bindQuery(ctx)
	if !ok {
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	dash, err := c.dashboardService.InstructorDashboard(ctx.Request.Context(), instructorID, term, day)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewInstructorDashboardResponse(dash), "Dashboard retrieved successfully"))
}
