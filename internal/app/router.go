package app

import (
	"github.com/baker9001/GGK-LiveProduction-sub011/docs"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/config"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/middleware"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// read access for any authenticated user
		authGroup.GET("/papers", c.paper.ListPapers)
		authGroup.GET("/papers/:id", c.paper.GetPaper)
		authGroup.GET("/papers/:id/nodes/:nodeId", c.paper.GetQuestionByNode)
		authGroup.GET("/papers/:id/import-jobs", c.paper.ListImportJobs)
		authGroup.GET("/import-jobs/:id", c.paper.GetImportJob)
		authGroup.GET("/grading-records/:id", c.grading.GetRecord)
		authGroup.GET("/papers/:id/grading-records", c.grading.ListRecords)
		authGroup.GET("/papers/:id/candidates/:candidateId/grading-records", c.grading.ListCandidateRecords)

		// authoring and grading are teacher operations
		teacher := authGroup.Group("/")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/papers/import", c.paper.ImportPaper)
			teacher.POST("/papers/validate", c.paper.ValidatePaper)
			teacher.POST("/papers/:id/reimport", c.paper.ReimportPaper)
			teacher.POST("/papers/:id/questions/:questionId/grade", c.grading.GradeText)
			teacher.POST("/papers/:id/questions/:questionId/grade-table", c.grading.GradeTable)
			teacher.POST("/papers/:id/grade-batch", c.grading.GradeBatch)
			teacher.GET("/papers/:id/grading-report", c.grading.ExportReport)
		}
	}
}
