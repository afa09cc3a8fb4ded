package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/cashbook/internal/auth"
	"github.com/mmynk/cashbook/internal/config"
	"github.com/mmynk/cashbook/internal/exporter"
	"github.com/mmynk/cashbook/internal/importer"
	"github.com/mmynk/cashbook/internal/metrics"
	"github.com/mmynk/cashbook/internal/middleware"
	"github.com/mmynk/cashbook/internal/service"
	"github.com/mmynk/cashbook/internal/storage/sqlite"
	"github.com/mmynk/cashbook/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, jwtManager)
	backupService := service.NewBackupService(importer.New(store), exporter.New(store))

	requireAuth := middleware.RequireAuth(jwtManager)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", authService.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authService.Login)
	mux.Handle("POST /api/v1/backup/import", requireAuth(http.HandlerFunc(backupService.Import)))
	mux.Handle("GET /api/v1/backup/export", requireAuth(http.HandlerFunc(backupService.Export)))
	mux.Handle("GET /api/v1/backup/imports", requireAuth(http.HandlerFunc(backupService.History)))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := middleware.Logging(middleware.CORS(mux))

	slog.Info("Starting server", "addr", cfg.Addr, "db_path", cfg.DBPath)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
