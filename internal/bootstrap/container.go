package bootstrap

import (
	"log"
	"time"

	"ai-tutoring-be/internal/config"
	"ai-tutoring-be/internal/controller"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/implementation"
	"ai-tutoring-be/internal/repository/memory"
	"ai-tutoring-be/internal/schedule"
	"ai-tutoring-be/internal/service"
	"ai-tutoring-be/pkg/embedding"
	"ai-tutoring-be/pkg/intent"
	"ai-tutoring-be/pkg/llm/factory"

	"gorm.io/gorm"
)

// Container wires every dependency of the application.
type Container struct {
	Logger    logger.ILogger
	Sessions  *memory.SessionStore
	Scheduler *schedule.Scheduler

	ChatController    controller.IChatController
	SessionController controller.ISessionController
	AdminController   controller.IAdminController
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Providers
	embedder, err := embedding.NewProvider(embedding.Config{
		Provider:      cfg.Embedding.Provider,
		Model:         cfg.Embedding.Model,
		Dimensions:    cfg.Embedding.Dimensions,
		APIKey:        cfg.Embedding.APIKey,
		BaseURL:       cfg.Embedding.BaseURL,
		OllamaBaseURL: cfg.Embedding.OllamaBaseURL,
		TimeoutSecs:   cfg.Embedding.TimeoutSecs,
	})
	if err != nil {
		log.Panicf("Unable to build embedding provider: %v", err)
	}

	smallLLM, err := factory.NewLLMProvider(modelConfig(cfg.SmallLLM))
	if err != nil {
		log.Panicf("Unable to build small LLM provider: %v", err)
	}
	fineTuned, err := factory.NewLLMProvider(modelConfig(cfg.FineTuned))
	if err != nil {
		log.Panicf("Unable to build fine-tuned provider: %v", err)
	}
	largeLLM, err := factory.NewLLMProvider(modelConfig(cfg.LargeLLM))
	if err != nil {
		log.Panicf("Unable to build large LLM provider: %v", err)
	}

	// Repositories
	questionRepo := implementation.NewQuestionRepository(db)
	interactionRepo := implementation.NewInteractionRepository(db, cfg.Tutoring.MaxDepth)
	sessions := memory.NewSessionStore(
		time.Duration(cfg.Session.TTLSeconds)*time.Second,
		cfg.Session.MaxHistory,
		appLogger,
	)

	// Services
	classifier := intent.NewClassifier(smallLLM)
	retrievalService := service.NewRetrievalService(questionRepo, embedder, smallLLM, fineTuned, largeLLM, cfg, appLogger)
	tutoringService := service.NewTutoringService(interactionRepo, sessions, embedder, fineTuned, classifier, cfg, appLogger)
	feedbackService := service.NewFeedbackService(questionRepo, appLogger)
	sessionService := service.NewSessionService(sessions, appLogger)
	adminService := service.NewAdminService(questionRepo, interactionRepo, sessions, appLogger)

	// Background jobs
	scheduler := schedule.NewScheduler(appLogger)
	reaper := schedule.NewSessionReaper(sessions, cfg.Session.CleanupIntervalSeconds)
	if err := scheduler.Register(reaper); err != nil {
		log.Panicf("Unable to register session reaper: %v", err)
	}

	return &Container{
		Logger:            appLogger,
		Sessions:          sessions,
		Scheduler:         scheduler,
		ChatController:    controller.NewChatController(retrievalService, tutoringService, feedbackService, sessionService, sessions),
		SessionController: controller.NewSessionController(sessionService),
		AdminController:   controller.NewAdminController(adminService),
	}
}

func modelConfig(cfg config.ModelConfig) factory.ModelConfig {
	return factory.ModelConfig{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		TimeoutSecs: cfg.TimeoutSecs,
	}
}
