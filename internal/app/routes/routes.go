package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rkurane/collegebus/internal/app/controllers"
	"github.com/rkurane/collegebus/internal/app/models/dto"
	"github.com/rkurane/collegebus/internal/middleware"
	"github.com/rkurane/collegebus/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	busController *controllers.BusController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
	frontendDir string,
) {
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.MetricsHandler())

	api := router.Group("/api")

	// Combined admin + student login
	api.POST("/login", authController.Login)

	// Admin login and password reset flow
	admin := api.Group("/admin")
	{
		admin.POST("/login", authController.AdminLogin)
		admin.POST("/request-reset", authController.RequestReset)
		admin.POST("/reset-password", authController.ResetPassword)
	}

	// Fleet management is admin-only
	buses := api.Group("/buses")
	buses.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(auth.RoleAdmin))
	{
		buses.GET("", busController.List)
		buses.GET("/get/:id", busController.Get)
		buses.POST("/add-bus", busController.Create)
		buses.PUT("/update/:id", busController.Update)
		buses.PUT("/:id", busController.Update)
		buses.DELETE("/:id", busController.Delete)
	}

	students := api.Group("/students")
	{
		// Public: login and the roll-number password reset
		students.POST("/login", studentController.Login)
		students.POST("/reset-password", studentController.ResetPassword)

		// Any authenticated caller; the controller limits students to their
		// own records
		authed := students.Group("")
		authed.Use(authMiddleware.JWTAuth())
		{
			authed.GET("/profile/:username", studentController.Profile)
			authed.GET("/:username", studentController.Dashboard)

			adminOnly := authed.Group("")
			adminOnly.Use(authMiddleware.RoleRequired(auth.RoleAdmin))
			{
				adminOnly.GET("", studentController.List)
				adminOnly.GET("/get/:id", studentController.Get)
				adminOnly.POST("/add-student", studentController.Create)
				adminOnly.PUT("/update/:id", studentController.Update)
				adminOnly.PUT("/:id", studentController.Update)
				adminOnly.DELETE("/:id", studentController.Delete)
			}
		}
	}

	// SPA fallback: serve the frontend build for anything that is not an API
	// route, falling back to index.html for client-side routing paths.
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse("Not found"))
			return
		}
		if frontendDir == "" {
			c.Status(http.StatusNotFound)
			return
		}
		file := filepath.Join(frontendDir, filepath.Clean(c.Request.URL.Path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(frontendDir, "index.html"))
	})
}
