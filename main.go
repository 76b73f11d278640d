package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-be/internal/api"
	"github.com/studyflow/studyflow-be/internal/config"
	"github.com/studyflow/studyflow-be/internal/database"
	"github.com/studyflow/studyflow-be/internal/logger"
	"github.com/studyflow/studyflow-be/internal/monitoring"
	"github.com/studyflow/studyflow-be/internal/services"
	"github.com/studyflow/studyflow-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	sessionService := services.NewSessionService(db, hub)
	chatService := services.NewChatService(sessionService, services.ChatConfig{
		APIKey:    cfg.AnthropicAPIKey,
		Model:     cfg.ChatModel,
		MaxTokens: cfg.ChatMaxTokens,
		Timeout:   cfg.ChatTimeout,
	})
	insightService := services.NewInsightService(sessionService)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(db, hub, cfg.StatsInterval)
	go statUpdater.Run()

	// Set up and run the background reminder checker
	reminderChecker, err := monitoring.NewReminderChecker(userService, hub, cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Str("cron", cfg.ReminderCron).Msg("Invalid reminder cron expression")
	}
	go reminderChecker.Run()

	// Set up router
	router := api.NewRouter(cfg, hub, userService, sessionService, chatService, insightService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	reminderChecker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
