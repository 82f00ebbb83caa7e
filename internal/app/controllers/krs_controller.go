package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/middleware"
	"github.com/myuniba/myuniba/internal/pkg/helpers"
)

// KRSController handles the student side of course registration
type KRSController struct {
	offeringService   services.OfferingService
	enrollmentService services.EnrollmentService
}

// NewKRSController creates a new KRSController
func NewKRSController(offeringService services.OfferingService, enrollmentService services.EnrollmentService) *KRSController {
	return &KRSController{
		offeringService:   offeringService,
		enrollmentService: enrollmentService,
	}
}

// ListAvailableCourses lists offerings of a term that still have seats
// @Summary List available offerings
// @Description Lists the offerings of a term with at least one remaining seat
// @Tags krs
// @Produce json
// @Security BearerAuth
// @Param term query string true "Term (year + 1|2)" example(20251)
// @Param section query string false "Section label"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.OfferingResponse}} "Offerings retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /krs/available-courses [get]
func (c *KRSController) ListAvailableCourses(ctx *gin.Context) {
	var query dto.AvailableOfferingsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offerings, total, err := c.offeringService.ListAvailable(ctx.Request.Context(), models.Term(query.Term), query.Section, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      dto.NewOfferingListResponse(offerings),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Offerings retrieved successfully"))
}

// GetKRS returns the caller's KRS for a term
// @Summary Get my KRS
// @Description Returns the caller's KRS for a term with its selected offerings
// @Tags krs
// @Produce json
// @Security BearerAuth
// @Param term query string true "Term" example(20251)
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "KRS retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term"
// @Failure 404 {object} dto.APIResponse "No KRS for this term"
// @Router /krs [get]
func (c *KRSController) GetKRS(ctx *gin.Context) {
	var query dto.TermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	krs, err := c.enrollmentService.Get(ctx.Request.Context(), studentID, models.Term(query.Term))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKRSResponse(krs), "KRS retrieved successfully"))
}

// SaveDraft replaces the selection on the caller's draft KRS
// @Summary Save KRS draft
// @Description Adds and drops offerings on the caller's draft KRS, reserving and releasing seats
// @Tags krs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveDraftRequest true "Selected offerings"
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "Draft saved"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Offering not found"
// @Failure 409 {object} dto.APIResponse "Offering full or KRS already submitted"
// @Router /krs/draft [put]
func (c *KRSController) SaveDraft(ctx *gin.Context) {
	var req dto.SaveDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	krs, err := c.enrollmentService.SaveDraft(ctx.Request.Context(), studentID, models.Term(req.Term), req.OfferingIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKRSResponse(krs), "Draft saved"))
}

// SubmitKRS saves a selection and requests approval in one call
// @Summary Submit KRS
// @Description Saves the selected offerings and moves the KRS to pending approval
// @Tags krs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitKRSRequest true "Selected offerings"
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "KRS submitted"
// @Failure 400 {object} dto.APIResponse "Empty selection or invalid request"
// @Failure 404 {object} dto.APIResponse "Offering not found"
// @Failure 409 {object} dto.APIResponse "Offering full or KRS already submitted"
// @Router /krs/submit [post]
func (c *KRSController) SubmitKRS(ctx *gin.Context) {
	var req dto.SubmitKRSRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	krs, err := c.enrollmentService.SubmitSelection(ctx.Request.Context(), studentID, models.Term(req.Term), req.OfferingIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKRSResponse(krs), "KRS submitted for approval"))
}

// RequestApproval moves the caller's draft KRS to pending
// @Summary Request KRS approval
// @Tags krs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TermRequest true "Term"
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "Approval requested"
// @Failure 400 {object} dto.APIResponse "Empty selection"
// @Failure 404 {object} dto.APIResponse "No KRS for this term"
// @Failure 409 {object} dto.APIResponse "Already submitted"
// @Router /krs/request-approval [post]
func (c *KRSController) RequestApproval(ctx *gin.Context) {
	c.transition(ctx, c.enrollmentService.Submit, "Approval requested")
}

// CancelRequest withdraws a pending KRS back to draft
// @Summary Cancel approval request
// @Tags krs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TermRequest true "Term"
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "Approval request cancelled"
// @Failure 404 {object} dto.APIResponse "No KRS for this term"
// @Failure 409 {object} dto.APIResponse "KRS is not pending"
// @Router /krs/cancel-request [post]
func (c *KRSController) CancelRequest(ctx *gin.Context) {
	c.transition(ctx, c.enrollmentService.Cancel, "Approval request cancelled")
}

// Reopen returns a rejected KRS to draft
// @Summary Reopen rejected KRS
// @Tags krs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TermRequest true "Term"
// @Success 200 {object} dto.APIResponse{data=dto.KRSResponse} "KRS reopened"
// @Failure 404 {object} dto.APIResponse "No KRS for this term"
// @Failure 409 {object} dto.APIResponse "KRS is not rejected"
// @Router /krs/reopen [post]
func (c *KRSController) Reopen(ctx *gin.Context) {
	c.transition(ctx, c.enrollmentService.Reopen, "KRS reopened")
}

type studentTransition func(ctx context.Context, studentID int64, term models.Term) (*models.Enrollment, error)

func (c *KRSController) transition(ctx *gin.Context, fn studentTransition, message string) {
	var req dto.TermRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	krs, err := fn(ctx.Request.Context(), studentID, models.Term(req.Term))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKRSResponse(krs), message))
}
