package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/studyflow/studyflow-be/internal/api/handlers"
	"github.com/studyflow/studyflow-be/internal/config"
	"github.com/studyflow/studyflow-be/internal/services"
	"github.com/studyflow/studyflow-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	sessionService services.SessionServiceProvider,
	chatService services.ChatServiceProvider,
	insightService services.InsightServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.GetCORSAllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	chatHandler := handlers.NewChatHandler(userService, chatService)
	insightHandler := handlers.NewInsightHandler(userService, insightService)
	reminderHandler := handlers.NewReminderHandler(userService, cfg.ReminderAPIKey)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","app_name":"Studyflow"}`))
	})

	// WebSocket study event stream
	r.Get("/ws", wsHandler.Serve)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/sessions", userHandler.GetSessions)
		r.Post("/sessions", userHandler.CreateSession)
		r.Get("/stats", userHandler.GetStats)
		r.Post("/chat", chatHandler.Chat)
		r.Route("/insights", func(r chi.Router) {
			r.Get("/trends", insightHandler.Trends)
			r.Get("/neglected", insightHandler.Neglected)
		})
	})

	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Put("/", sessionHandler.Update)
		r.Delete("/", sessionHandler.Delete)
	})

	r.Get("/reminders/users-without-sessions-today", reminderHandler.UsersWithoutSessionsToday)

	return r
}
