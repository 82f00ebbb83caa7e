package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myuniba/myuniba/internal/app/controllers"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/models/dto"
	"github.com/myuniba/myuniba/internal/middleware"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	KRS       *controllers.KRSController
	Lecturer  *controllers.LecturerController
	Grade     *controllers.GradeController
	ExamCard  *controllers.ExamCardController
	Dashboard *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "Service is healthy"))
	})

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Student routes: dashboard, KRS, KHS and exam card
	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/dashboard", c.Dashboard.StudentDashboard)

		krs := student.Group("/krs")
		{
			krs.GET("/available-courses", c.KRS.ListAvailableCourses)
			krs.GET("", c.KRS.GetKRS)
			krs.PUT("/draft", c.KRS.SaveDraft)
			krs.POST("/submit", c.KRS.SubmitKRS)
			krs.POST("/request-approval", c.KRS.RequestApproval)
			krs.POST("/cancel-request", c.KRS.CancelRequest)
			krs.POST("/reopen", c.KRS.Reopen)
		}

		student.GET("/grades", c.Grade.GetKHS)
		student.GET("/exam-card", c.ExamCard.GetExamCard)
	}

	// Instructor (dosen) routes: KRS approval, class lists and grading
	dosen := authenticated.Group("/dosen")
	dosen.Use(authMiddleware.RoleRequired(models.RoleInstructor))
	{
		dosen.GET("/dashboard", c.Dashboard.InstructorDashboard)
		dosen.GET("/krs-pending", c.Lecturer.ListPendingKRS)
		dosen.POST("/krs/:id/approve", c.Lecturer.ApproveKRS)
		dosen.POST("/krs/:id/reject", c.Lecturer.RejectKRS)
		dosen.GET("/classes", c.Lecturer.ListClasses)
		dosen.GET("/classes/:id/students", c.Lecturer.ClassStudents)
		dosen.POST("/grades", c.Grade.SubmitGrades)
	}
}
