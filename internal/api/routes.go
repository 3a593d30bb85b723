package api

import (
	"net/http"

	"fitmentor/coaching-app/internal/domain"
	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	webhookSecret string,
	authService service.AuthService,
	mentorService service.MentorService,
	exerciseService service.ExerciseService,
	planService service.PlanService,
	progressService service.ProgressService,
	enrollmentService service.EnrollmentService,
) {
	authHandler := NewAuthHandler(authService)
	mentorHandler := NewMentorHandler(mentorService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	planHandler := NewPlanHandler(planService)
	progressHandler := NewProgressHandler(progressService)
	enrollmentHandler := NewEnrollmentHandler(enrollmentService)
	paymentHandler := NewPaymentHandler(enrollmentService, webhookSecret)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Signed by the gateway, not by a user token.
		apiV1.POST("/webhooks/razorpay", paymentHandler.HandleWebhook)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Exercise library (mentor-owned) ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", RoleMiddleware(domain.RoleMentor), exerciseHandler.CreateExercise)
			exerciseGroup.GET("", RoleMiddleware(domain.RoleMentor), exerciseHandler.GetMentorExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", RoleMiddleware(domain.RoleMentor), exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", RoleMiddleware(domain.RoleMentor), exerciseHandler.DeleteExercise)
		}

		// --- Plan authoring (mentor) and reading (both roles) ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", RoleMiddleware(domain.RoleMentor), planHandler.CreatePlan)
			planGroup.GET("", planHandler.GetClientPlans)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.PUT("/:planId", RoleMiddleware(domain.RoleMentor), planHandler.UpdatePlan)
			planGroup.POST("/:planId/activate", RoleMiddleware(domain.RoleMentor), planHandler.ActivatePlan)
			planGroup.DELETE("/:planId", RoleMiddleware(domain.RoleMentor), planHandler.DeletePlan)

			// --- Progress: logging, metrics, navigation, calories ---
			planGroup.GET("/:planId/progress", progressHandler.GetProgress)
			planGroup.POST("/:planId/sets", RoleMiddleware(domain.RoleClient), progressHandler.LogSet)
			planGroup.POST("/:planId/sets/delete", RoleMiddleware(domain.RoleClient), progressHandler.DeleteSet)
			planGroup.GET("/:planId/next-day", progressHandler.NextDay)
			planGroup.GET("/:planId/calories", progressHandler.DayCalories)

			// --- Progress photos ---
			planGroup.POST("/:planId/photos/upload-url", RoleMiddleware(domain.RoleClient), progressHandler.RequestPhotoUpload)
			planGroup.POST("/:planId/photos", RoleMiddleware(domain.RoleClient), progressHandler.ConfirmPhotoUpload)
			planGroup.GET("/:planId/photos", progressHandler.GetPhotos)
		}

		// --- Enrollment lifecycle ---
		enrollmentGroup := protected.Group("/enrollments")
		{
			enrollmentGroup.POST("", RoleMiddleware(domain.RoleClient), enrollmentHandler.RequestEnrollment)
			enrollmentGroup.GET("/mine", RoleMiddleware(domain.RoleClient), enrollmentHandler.GetClientEnrollments)
			enrollmentGroup.GET("/received", RoleMiddleware(domain.RoleMentor), enrollmentHandler.GetMentorEnrollments)
			enrollmentGroup.GET("/:enrollmentId", enrollmentHandler.GetEnrollment)
			enrollmentGroup.POST("/:enrollmentId/accept", RoleMiddleware(domain.RoleMentor), enrollmentHandler.AcceptEnrollment)
			enrollmentGroup.POST("/:enrollmentId/reject", RoleMiddleware(domain.RoleMentor), enrollmentHandler.RejectEnrollment)
		}

		// --- Mentor roster ---
		mentorGroup := protected.Group("/mentor")
		mentorGroup.Use(RoleMiddleware(domain.RoleMentor))
		{
			mentorGroup.GET("/clients", mentorHandler.GetManagedClients)
			mentorGroup.GET("/clients/:clientId", mentorHandler.GetClient)
		}
	}
}
