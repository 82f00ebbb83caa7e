package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/middleware"
	"github.com/myuniba/myuniba/internal/pkg/helpers"
)

// LecturerController handles the instructor (dosen) side of KRS approval and class lists
type LecturerController struct {
	enrollmentService services.EnrollmentService
	offeringService   services.OfferingService
}

// NewLecturerController creates a new LecturerController
func NewLecturerController(enrollmentService services.EnrollmentService, offeringService services.OfferingService) *LecturerController {
	return &LecturerController{
		enrollmentService: enrollmentService,
		offeringService:   offeringService,
	}
}

// ListPendingKRS lists pending KRS that include one of the caller's offerings
// @Summary List pending KRS
// @Tags dosen
// @Produce json
// @Security BearerAuth
// @Param term query string false "Term" example(20251)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.KRSResponse}} "Pending KRS retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term"
// @Failure 403 {object} dto.APIResponse "Caller is not an instructor"
// @Router /dosen/krs-pending [get]
func (c *LecturerController) ListPendingKRS(ctx *gin.Context) {
	var query dto.OptionalTermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	pending, total, err := c.enrollmentService.ListPendingForInstructor(ctx.Request.Context(), instructorID, models.Term(query.Term), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.KRSResponse, 0, len(pending))
	for _, e := range pending {
		items = append(items, dto.NewKRSResponse(e))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Pending KRS retrieved successfully"))
}

// ApproveKRS approves a pending KRS
// @Summary Approve KRS
// @Tags dosen
// @Produce json
// @Security BearerAuth
// @Param id path int true "KRS ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "KRS approved"
// @Failure 403 {object} dto.APIResponse "Caller may not decide on this KRS"
// @Failure 404 {object} dto.APIResponse "KRS not found"
// @Failure 409 {object} dto.APIResponse "KRS is not pending"
// @Router /dosen/krs/{id}/approve [post]
func (c *LecturerController) ApproveKRS(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	krs, err := c.enrollmentService.Approve(ctx.Request.Context(), enrollmentID, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKRSResponse(krs), "KRS approved"))
}

// RejectKRS rejects a pending KRS with a note
// @Summary Reject KRS
// @Tags dosen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "KRS ID" Format(int64) minimum(1)
// @Param request body dto.RejectKRSRequest true "Rejection note"
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "KRS rejected"
// @Failure 400 {object} dto.APIResponse "Missing note"
// @Failure 403 {object} dto.APIResponse "Caller may not decide on this KRS"
// @Failure 404 {object} dto.APIResponse "KRS not found"
// @Failure 409 {object} dto.APIResponse "KRS is not pending"
// @Router /dosen/krs/{id}/reject [post]
func (c *LecturerController) RejectKRS(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.RejectKRSRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	krs, err := c.enrollmentService.Reject(ctx.Request.Context(), enrollmentID, instructorID, req.Note)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKRSResponse(krs), "KRS rejected"))
}

// ListClasses lists the offerings the caller teaches
// @Summary List my classes
// @Tags dosen
// @Produce json
// @Security BearerAuth
// @Param term query string false "Term" example(20251)
// @Success 200 {object} dto.APIResponse{data=[]dto.OfferingResponse} "Classes retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term"
// @Router /dosen/classes [get]
func (c *LecturerController) ListClasses(ctx *gin.Context) {
	var query dto.OptionalTermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	classes, err := c.offeringService.ListByInstructor(ctx.Request.Context(), instructorID, models.Term(query.Term))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewOfferingListResponse(classes), "Classes retrieved successfully"))
}

// ClassStudents lists the students who selected one of the caller's offerings
// @Summary List class students
// @Tags dosen
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offering ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.RosterEntryResponse} "Students retrieved successfully"
// @Failure 403 {object} dto.APIResponse "Caller does not teach this offering"
// @Failure 404 {object} dto.APIResponse "Offering not found"
// @Router /dosen/classes/{id}/students [get]
func (c *LecturerController) ClassStudents(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	roster, err := c.offeringService.Roster(ctx.Request.Context(), offeringID, instructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRosterResponse(roster), "Students retrieved successfully"))
}
