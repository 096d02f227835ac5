package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campusreg/registrar/internal/app/controllers"
	"github.com/campusreg/registrar/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	registrationController *controllers.RegistrationController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	v1.GET("/periods", catalogController.GetAllPeriods)

	departments := v1.Group("/departments")
	{
		departments.GET("", catalogController.GetAllDepartments)
		departments.GET("/:id", catalogController.GetDepartmentByID)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", catalogController.GetAllCourses)
		courses.GET("/:id", catalogController.GetCourseByID)
	}

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated registration routes ---
	registration := v1.Group("/registration")
	registration.Use(authMiddleware.JWTAuth(), authMiddleware.CurrentRecordRequired())
	{
		registration.GET("/offerings", registrationController.GetOfferings)
		registration.POST("/enroll", registrationController.BatchEnroll)
	}
}
