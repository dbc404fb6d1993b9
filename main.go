package main

import (
	"log"

	api "uniwork-backend/cmd/api"
	authDelivery "uniwork-backend/internal/auth/delivery"
	authdomain "uniwork-backend/internal/auth/domain"
	authRepo "uniwork-backend/internal/auth/repository"
	authUsecase "uniwork-backend/internal/auth/usecase"
	chatdomain "uniwork-backend/internal/chat/domain"
	chatRepo "uniwork-backend/internal/chat/repository"
	chatUsecase "uniwork-backend/internal/chat/usecase"
	syncDelivery "uniwork-backend/internal/sync/delivery"
	syncdomain "uniwork-backend/internal/sync/domain"
	syncRepo "uniwork-backend/internal/sync/repository"
	syncUsecase "uniwork-backend/internal/sync/usecase"
	taskdomain "uniwork-backend/internal/task/domain"
	taskRepo "uniwork-backend/internal/task/repository"
	taskScheduler "uniwork-backend/internal/task/scheduler"
	taskUsecase "uniwork-backend/internal/task/usecase"
	"uniwork-backend/pkg/config"
	"uniwork-backend/pkg/database"
	"uniwork-backend/pkg/fcm"
	"uniwork-backend/pkg/gcal"
	"uniwork-backend/pkg/gemini"
	"uniwork-backend/pkg/gmail"
	"uniwork-backend/pkg/googleauth"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.Credential{}, &authdomain.FCMToken{},
		&syncdomain.Email{}, &syncdomain.EmailThread{}, &syncdomain.CalendarEvent{},
		&taskdomain.Task{}, &chatdomain.ChatMessage{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	credRepository := authRepo.NewCredentialRepository(db)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(db)
	emailRepository := syncRepo.NewEmailRepository(db)
	calendarRepository := syncRepo.NewCalendarRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	chatRepository := chatRepo.NewChatRepository(db)

	// Token lifecycle
	refresher := googleauth.NewRefresher(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.ProviderTimeout)
	resolver := authUsecase.NewTokenResolver(credRepository, refresher)

	// Sync pipeline
	engine := syncUsecase.NewEngine(cfg)
	emailSyncer := syncUsecase.NewEmailSyncer(gmail.NewClient(), emailRepository)
	calendarSyncer := syncUsecase.NewCalendarSyncer(gcal.NewClient(), calendarRepository, cfg)
	orchestrator := syncUsecase.NewOrchestrator(credRepository, resolver, engine, emailSyncer, calendarSyncer)

	// Use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, credRepository, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository)
	assistant := gemini.NewGeminiService(cfg.GeminiApiKey)
	chatUsecaseInstance := chatUsecase.NewChatUsecase(chatRepository, taskUsecaseInstance, assistant)

	// FCM client is optional; reminders are disabled without credentials
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push reminders disabled): %v", err)
		}
	}

	// Task reminder scheduler
	reminderScheduler := taskScheduler.NewTaskReminderScheduler(taskRepository, fcmTokenRepository, fcmClient)
	reminderScheduler.Start()
	defer reminderScheduler.Stop()

	// HTTP layer
	authHandler := authDelivery.NewAuthHandler(authUsecaseInstance, fcmTokenRepository)
	syncHandler := syncDelivery.NewSyncHandler(orchestrator, emailRepository, calendarRepository)
	handler := api.NewHandler(authUsecaseInstance, taskUsecaseInstance, chatUsecaseInstance, authHandler, syncHandler, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
