package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agendia/config"
	"agendia/cron"
	"agendia/database"
	agendaRepoPkg "agendia/database/repository/agenda"
	agendaConfigRepoPkg "agendia/database/repository/agendaconfig"
	chatlogRepoPkg "agendia/database/repository/chatlog"
	"agendia/handlers"
	"agendia/middleware"
	"agendia/routes"
	ai "agendia/services/intelligence"
	"agendia/services/notification"
	"agendia/services/scheduling"
	"agendia/services/tasks"
	"agendia/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitChatContextCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	dbName := config.AppConfig.DatabaseName
	agendaRepo := agendaRepoPkg.NewMongoAgendaRepo(dbName)
	configRepo := agendaConfigRepoPkg.NewMongoAgendaConfigRepo(dbName)
	chatRepo := chatlogRepoPkg.NewMongoChatLogRepo(dbName)

	for name, fn := range map[string]func() error{
		"agenda":        agendaRepo.EnsureIndexes,
		"agenda_config": configRepo.EnsureIndexes,
		"chat_messages": chatRepo.EnsureIndexes,
	} {
		if err := fn(); err != nil {
			logger.Sugar().Warnf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	notifier := notification.NewTelegramNotifier(
		config.AppConfig.TelegramBotToken,
		config.AppConfig.TelegramChatID,
		config.AppConfig.DefaultTimezone,
	)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler := tasks.NewScheduler(asynqClient)

	schedulingEngine := &scheduling.DefaultSchedulingEngine{
		Repo:       agendaRepo,
		ConfigRepo: configRepo,
		Notifier:   notifier,
		Reminders:  reminderScheduler,
	}

	ctxStore := ai.NewRedisContextStore(utils.GetChatContextCacheClient(), 30*time.Minute)
	geminiClient := ai.NewGeminiClient(config.AppConfig.GeminiAPIKey)
	chatService := ai.NewChatService(geminiClient, ctxStore, schedulingEngine, chatRepo)

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(schedulingEngine, chatService, chatRepo)
	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder worker.
	cron.InitReminderWorker(schedulingEngine, notifier)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
