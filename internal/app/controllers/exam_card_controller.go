package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/middleware"
)

// ExamCardController serves the exam card (kartu ujian)
type ExamCardController struct {
	examCardService services.ExamCardService
}

// NewExamCardController creates a new ExamCardController
func NewExamCardController(examCardService services.ExamCardService) *ExamCardController {
	return &ExamCardController{
		examCardService: examCardService,
	}
}

// GetExamCard returns the caller's exam card for a term
// @Summary Get my exam card
// @Description Available once the term's KRS is approved and no bill is unpaid
// @Tags exam-card
// @Produce json
// @Security BearerAuth
// @Param term query string true "Term" example(20251)
// @Success 200 {object} dto.APIResponse{data=dto.ExamCardResponse} "Exam card retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid term"
// @Failure 409 {object} dto.APIResponse "KRS not approved or unpaid bills"
// @Router /exam-card [get]
func (c *ExamCardController) GetExamCard(ctx *gin.Context) {
	var query dto.TermQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	studentID, ok := currentUser(ctx)
	if !ok {
		return
	}

	card, err := c.examCardService.Get(ctx.Request.Context(), studentID, models.Term(query.Term))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamCardResponse(card), "Exam card retrieved successfully"))
}
