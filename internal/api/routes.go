package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/database"
	"github.com/confjudge/api-server/internal/metrics"
	"github.com/confjudge/api-server/internal/services"
	"github.com/confjudge/api-server/internal/storage"
	"github.com/confjudge/api-server/internal/store/postgres"
	"github.com/confjudge/api-server/pkg/config"
)

// SetupRoutes wires the full production stack: postgres-backed stores,
// local file storage and all HTTP routes.
func SetupRoutes(r *gin.Engine, db *database.DB, cfg *config.Config) error {
	st := postgres.New(db.DB)

	files := storage.NewLocal(cfg.StorageDir, cfg.PublicBaseURL)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	svcs := services.NewServices(st, files, jwtService)
	m := metrics.NewManager()

	healthCheck := func(context.Context) error {
		return db.HealthCheck()
	}

	RegisterRoutes(r, svcs, cfg.JWTSecret, m, healthCheck)

	// Uploaded presentations are served directly from local storage.
	r.Static("/files", cfg.StorageDir)

	return nil
}

// RegisterRoutes mounts all API routes on r. It is split from
// SetupRoutes so tests can run against in-memory stores.
func RegisterRoutes(r *gin.Engine, svcs *services.Services, jwtSecret string, m *metrics.Manager, healthCheck func(context.Context) error) {
	r.Use(m.Middleware())

	authHandler := NewAuthHandler(svcs.Auth)
	roleHandler := NewRoleHandler(svcs.Roles)
	expertiseHandler := NewExpertiseHandler(svcs.Expertise)
	presentationHandler := NewPresentationHandler(svcs.Presentations)
	evaluationHandler := NewEvaluationHandler(svcs.Evaluations, m)
	resultsHandler := NewResultsHandler(svcs.Results)
	exportHandler := NewExportHandler(svcs.Reports, m)
	uploadHandler := NewUploadHandler(svcs.Uploads, m)
	gradeHandler := NewGradeHandler(svcs.Grades)

	r.GET("/metrics", m.Handler())
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if healthCheck != nil {
			if err := healthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(jwtSecret))
	{
		// Role management (admin only, enforced in the service layer)
		protected.PUT("/admin/users/:id/role", roleHandler.AssignRole)
		protected.GET("/admin/users/:id/role", roleHandler.GetRole)

		// Conference expertise vocabulary
		protected.GET("/conferences/:id/expertise-areas", expertiseHandler.GetConferenceAreas)
		protected.POST("/admin/conferences/:id/expertise-areas", expertiseHandler.AddConferenceArea)
		protected.DELETE("/admin/conferences/:id/expertise-areas", expertiseHandler.RemoveConferenceArea)
		protected.PUT("/admin/judges/:id/expertise", expertiseHandler.AssignJudgeExpertise)

		// Judge presentation views
		protected.GET("/judge/projects", presentationHandler.GetAssignedProjects)
		protected.GET("/judge/projects/:id", presentationHandler.GetProjectDetails)
		protected.GET("/judge/projects/:id/presentation", presentationHandler.GetPresentationURL)

		// Judge evaluations
		protected.GET("/conferences/:id/criteria", evaluationHandler.GetCriteria)
		protected.PUT("/judge/projects/:id/evaluation/draft", evaluationHandler.SaveDraft)
		protected.POST("/judge/projects/:id/evaluation/submit", evaluationHandler.SubmitEvaluation)
		protected.GET("/judge/projects/:id/evaluation", evaluationHandler.GetEvaluation)

		// Manager results
		protected.GET("/manager/conferences/:id/evaluations", resultsHandler.GetAllEvaluations)
		protected.GET("/manager/projects/:id/evaluations", resultsHandler.GetProjectEvaluations)
		protected.GET("/manager/conferences/:id/summary", resultsHandler.GetSummary)
		protected.GET("/manager/conferences/:id/rankings", resultsHandler.GetProjectAverageScores)
		protected.GET("/manager/conferences/:id/judge-status", resultsHandler.GetJudgeStatus)

		// Manager report export
		protected.GET("/manager/conferences/:id/report", exportHandler.GetReportData)
		protected.GET("/manager/conferences/:id/export", exportHandler.Export)

		// Student uploads
		protected.GET("/student/projects", uploadHandler.GetStudentProjects)
		protected.POST("/student/projects/:id/presentation", uploadHandler.UploadPresentation)
		protected.DELETE("/student/projects/:id/presentation", uploadHandler.DeletePresentation)

		// Student grades
		protected.GET("/student/grades", gradeHandler.GetAllGrades)
		protected.GET("/student/projects/:id/grade", gradeHandler.GetProjectGrade)
		protected.GET("/student/projects/:id/scores", gradeHandler.GetDetailedScores)
	}
}
