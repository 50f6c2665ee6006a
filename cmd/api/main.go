package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/storeops/posdesk-backend/internal/config"
	"github.com/storeops/posdesk-backend/internal/modules/auth"
	"github.com/storeops/posdesk-backend/internal/modules/lookup"
	"github.com/storeops/posdesk-backend/internal/modules/reprint"
	"github.com/storeops/posdesk-backend/internal/modules/storedb"
	"github.com/storeops/posdesk-backend/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// ── Store connectivity ──────────────────────────────────
	dialer := storedb.NewMSSQLDialer(cfg.DBUser, cfg.DBPassword, cfg.DB.ConnectTimeout)
	manager := storedb.NewManager(dialer, cfg.DB, logger)

	pool, err := workers.New(cfg.PoolCapacity, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Release()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Operator gate ───────────────────────────────────────
	authService := auth.NewService(cfg.AuthSecret, cfg.AuthOperators)
	router.Post("/api/v1/login", auth.LoginHandler(authService))

	// ── Core services behind the gate ───────────────────────
	lookupService := lookup.NewService(manager, logger)

	printAPI := reprint.NewHTTPPrintAPI(cfg.PrintAPIURL, cfg.PrintAPITimeout, logger)
	quota := reprint.NewQuotaTracker()
	journal := reprint.NewJournal(logger)
	reprintService := reprint.NewService(manager, lookupService, printAPI, quota, journal, cfg.Reprint, logger)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))
		lookup.NewHandler(lookupService).RegisterRoutes(r)
		reprint.NewHandler(reprintService, journal, pool).RegisterRoutes(r)
	})

	// ── Start server ────────────────────────────────────────
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	logger.Info("posdesk API starting", "port", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
