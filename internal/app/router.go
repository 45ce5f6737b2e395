package app

import (
	"learning_path_backend/docs"
	"learning_path_backend/internal/config"
	"learning_path_backend/internal/middleware"
	"learning_path_backend/internal/model"
	"learning_path_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerProgressRoutes(authGroup, c)
		a.registerLearningPathRoutes(authGroup, c)
		a.registerGroupRoutes(authGroup, c)
		a.registerContentRoutes(authGroup, c)
		a.registerNotificationRoutes(authGroup, c)
	}
}

func (a *App) registerProgressRoutes(r *gin.RouterGroup, c *controllers) {
	progress := r.Group("/progress")
	{
		progress.POST("/update-theme", middleware.StrictRoleMiddleware(model.Student), c.progress.UpdateTheme)
		progress.GET("/my/:learningPathId", middleware.StrictRoleMiddleware(model.Student), c.progress.GetMyProgress)

		teacher := progress.Group("")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.GET("/group/:groupId/path/:learningPathId/docente", c.progress.GetGroupProgress)
			teacher.GET("/student/:studentId/path/:learningPathId/docente", c.progress.GetStudentProgress)
			teacher.POST("/teacher/set-module-status", c.progress.SetModuleStatus)
			teacher.POST("/teacher/set-theme-status", c.progress.SetThemeStatus)
		}
	}
}

func (a *App) registerLearningPathRoutes(r *gin.RouterGroup, c *controllers) {
	teacherOnly := middleware.RoleMiddleware(model.Teacher)

	paths := r.Group("/learning-paths")
	{
		paths.GET("/:id", c.learningPath.GetStructure)
		paths.POST("", teacherOnly, c.learningPath.CreatePath)
		paths.PUT("/:id", teacherOnly, c.learningPath.UpdatePath)
		paths.DELETE("/:id", teacherOnly, c.learningPath.DeletePath)
		paths.POST("/:id/modules", teacherOnly, c.learningPath.CreateModule)

		paths.PUT("/modules/:moduleId", teacherOnly, c.learningPath.UpdateModule)
		paths.DELETE("/modules/:moduleId", teacherOnly, c.learningPath.DeleteModule)
		paths.POST("/modules/:moduleId/themes", teacherOnly, c.learningPath.CreateTheme)

		paths.PUT("/themes/:themeId", teacherOnly, c.learningPath.UpdateTheme)
		paths.DELETE("/themes/:themeId", teacherOnly, c.learningPath.DeleteTheme)
		paths.GET("/themes/:themeId/assignments", c.assignment.List)
		paths.POST("/themes/:themeId/assignments", teacherOnly, c.assignment.Create)

		paths.PUT("/assignments/:assignmentId", teacherOnly, c.assignment.Update)
		paths.DELETE("/assignments/:assignmentId", teacherOnly, c.assignment.Delete)
	}
}

func (a *App) registerGroupRoutes(r *gin.RouterGroup, c *controllers) {
	teacherOnly := middleware.RoleMiddleware(model.Teacher)

	groups := r.Group("/groups")
	{
		groups.GET("", c.group.ListMine)
		groups.POST("", teacherOnly, c.group.Create)
		groups.GET("/:id", c.group.Get)
		groups.PUT("/:id", teacherOnly, c.group.Update)
		groups.GET("/:id/learning-paths", c.learningPath.ListPaths)
		groups.POST("/:id/join", middleware.StrictRoleMiddleware(model.Student), c.group.Join)
		groups.GET("/:id/members", teacherOnly, c.group.ListMembers)
		groups.PUT("/:id/members/:studentId", teacherOnly, c.group.ReviewMember)
	}
}

func (a *App) registerContentRoutes(r *gin.RouterGroup, c *controllers) {
	content := r.Group("/content")
	content.Use(middleware.RoleMiddleware(model.Teacher))
	{
		content.GET("/resources", c.content.ListResources)
		content.POST("/resources", c.content.CreateResource)
		content.GET("/activities", c.content.ListActivities)
		content.POST("/activities", c.content.CreateActivity)
	}
}

func (a *App) registerNotificationRoutes(r *gin.RouterGroup, c *controllers) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", c.notification.List)
		notifications.GET("/ws", c.notification.Connect)
		notifications.PUT("/read-all", c.notification.MarkAllRead)
		notifications.PUT("/:id/read", c.notification.MarkRead)
	}
}
