package api

import (
	"net/http"

	"uniwork-backend/internal/auth/delivery"
	authUsecase "uniwork-backend/internal/auth/usecase"
	chatDelivery "uniwork-backend/internal/chat/delivery"
	syncDelivery "uniwork-backend/internal/sync/delivery"
	taskDelivery "uniwork-backend/internal/task/delivery"
	"uniwork-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUsecase authUsecase.AuthUsecase,
	cfg *config.Config,
	authHandler *delivery.AuthHandler,
	taskHandler *taskDelivery.TaskHandler,
	chatHandler *chatDelivery.ChatHandler,
	syncHandler *syncDelivery.SyncHandler,
) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
			auth.DELETE("/google", delivery.AuthMiddleware(authUsecase), authHandler.RevokeGoogle)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(authUsecase))
		{
			fcm.POST("/register", authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(delivery.AuthMiddleware(authUsecase))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
		}

		// Chat routes (protected) - task capture conversation
		chat := api.Group("/chat")
		chat.Use(delivery.AuthMiddleware(authUsecase))
		{
			chat.POST("", chatHandler.Converse)
			chat.GET("/history", chatHandler.History)
			chat.DELETE("", chatHandler.Clear)
		}

		// Synced data + interactive sync (protected)
		protected := api.Group("")
		protected.Use(delivery.AuthMiddleware(authUsecase))
		{
			protected.POST("/sync", syncHandler.SyncMe)
			protected.GET("/emails", syncHandler.GetEmails)
			protected.GET("/emails/threads/:id", syncHandler.GetThread)
			protected.GET("/calendar/events", syncHandler.GetEvents)
		}

		// Scheduler trigger, guarded by the cron secret
		cron := api.Group("/cron")
		cron.Use(delivery.SecretMiddleware(cfg.CronSecret))
		{
			cron.POST("/sync", syncHandler.SyncAll)
		}

		// Admin tooling, guarded by the admin secret
		admin := api.Group("/admin")
		admin.Use(delivery.SecretMiddleware(cfg.AdminSecret))
		{
			admin.POST("/reset-tokens", authHandler.ResetGoogleTokens)
			admin.POST("/fix-credentials", authHandler.FixGoogleCredentials)
		}
	}
}
