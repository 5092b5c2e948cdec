// Package routes configures the HTTP routing for the application
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akarpov/docflow/internal/app/controllers"
	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	documentController *controllers.DocumentController,
	authMiddleware *middleware.AuthMiddleware,
	healthCheck gin.HandlerFunc,
) {
	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/greeting", authController.Greeting)

		// User administration (curator only)
		users := authenticated.Group("/users")
		users.Use(authMiddleware.RoleRequired(models.RoleCurator))
		{
			users.GET("", userController.ListUsers)
			users.PUT("/role", userController.SetRole)
		}

		// Document workflow
		documents := authenticated.Group("/documents")
		{
			documents.POST("", authMiddleware.RoleRequired(models.RoleTeacher, models.RoleCurator), documentController.Create)
			documents.GET("/mine", documentController.ListMine)
			documents.GET("/:id", documentController.Get)
			documents.PUT("/:id/submit", authMiddleware.RoleRequired(models.RoleStudent), documentController.Submit)
			documents.PUT("/:id/review", authMiddleware.RoleRequired(models.RoleTeacher, models.RoleCurator), documentController.Review)
			documents.PUT("/:id/finalize", authMiddleware.RoleRequired(models.RoleCurator), documentController.Finalize)
			documents.GET("/:id/download", authMiddleware.RoleRequired(models.RoleTeacher, models.RoleCurator), documentController.Download)
		}
	}
}
