package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/middleware"
)

// GradeController handles grade submission and the KHS report
type GradeController struct {
	gradeService services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeService) *GradeController {
	return &GradeController{
		gradeService: gradeService,
	}
}

// GetKHS returns the caller's study results for a term
// @Summary Get my KHS
// @Description Returns the caller's grades for a term with IPS and IPK
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param term query string true "Term" example(20251)
// @Success 200 {object} dto.APIResponse{data=dto.KHSResponse} "KHS retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term"
// @Router /grades [get]
func (c *GradeController) GetKHS(ctx *gin.Context) {
	var query dto.TermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	khs, err := c.gradeService.GetKHS(ctx.Request.Context(), studentID, models.Term(query.Term))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewKHSResponse(khs), "KHS retrieved successfully"))
}

// SubmitGrades records grades for one of the caller's offerings
// @Summary Submit grades
// @Description Upserts grades for students with an approved KRS containing the offering; other entries are skipped
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitGradesRequest true "Grade entries"
// @Success 200 {object} dto.APIResponse{data=dto.SubmitGradesResponse} "Grades submitted"
// @Failure 400 {object} dto.APIResponse "Invalid grade entry"
// @Failure 403 {object} dto.APIResponse "Caller does not teach this offering"
// @Failure 404 {object} dto.APIResponse "Offering not found"
// @Router /dosen/grades [post]
func (c *GradeController) SubmitGrades(ctx *gin.Context) {
	var req dto.SubmitGradesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	instructorID, ok := currentUser(ctx)
	if !ok {
		return
	}

	entries := make([]services.GradeEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, services.GradeEntry{
			StudentID:    e.StudentID,
			LetterGrade:  models.LetterGrade(e.LetterGrade),
			NumericGrade: *e.NumericGrade,
		})
	}

	results, err := c.gradeService.SubmitGrades(ctx.Request.Context(), req.OfferingID, instructorID, entries)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.SubmitGradesResponse{
		OfferingID: req.OfferingID,
		Results:    make([]dto.GradeEntryResultResponse, 0, len(results)),
	}
	for _, r := range results {
		if r.Outcome == services.GradeWritten {
			resp.Written++
		} else {
			resp.Skipped++
		}
		resp.Results = append(resp.Results, dto.GradeEntryResultResponse{
			StudentID: r.StudentID,
			Outcome:   string(r.Outcome),
			Reason:    r.Reason,
		})
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Grades submitted"))
}
