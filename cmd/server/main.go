package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"neuronest-backend/internal/agent"
	"neuronest-backend/internal/alert"
	"neuronest-backend/internal/chat"
	"neuronest-backend/internal/config"
	"neuronest-backend/internal/memory"
	"neuronest-backend/internal/platform/whatsapp"
	"neuronest-backend/internal/reminder"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// 1. Infrastructure
	var db *sql.DB
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			break
		}
		logger.Info("waiting for database", "attempt", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	m, err := migrate.New("file://migrations", cfg.DatabaseURL)
	if err != nil {
		logger.Error("migration init failed", "error", err)
		os.Exit(1)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Error("migration up failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// 2. Clients
	waClient := whatsapp.NewClient(cfg.UltramsgInstanceID, cfg.UltramsgToken)
	llmClient := agent.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.ChatModel)

	// 3. Services
	registry := agent.NewRegistry()
	mem := memory.NewStore(cfg.MemoryTurns)

	reminderStore := reminder.NewStore(db)
	scheduler := reminder.NewScheduler(reminderStore, waClient, logger, cfg.SchedulerInterval, cfg.SendTimeout)
	if err := scheduler.Load(context.Background()); err != nil {
		logger.Error("could not load reminder jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	alertSvc := alert.NewService(waClient, cfg.EmergencyPhone, logger)
	chatSvc := chat.NewService(registry, llmClient, mem, scheduler, alertSvc, logger)

	chatHandler := chat.NewHandler(chatSvc, registry)
	alertHandler := alert.NewHandler(alertSvc)
	reminderHandler := reminder.NewHandler(scheduler)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
			if r.Method == "OPTIONS" {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		chat.RegisterRoutes(r, chatHandler)
		alert.RegisterRoutes(r, alertHandler)
		reminder.RegisterRoutes(r, reminderHandler)
	})

	logger.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
