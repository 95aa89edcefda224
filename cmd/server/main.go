package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arquivo/internal/config"
	"arquivo/internal/domain/repositories"
	"arquivo/internal/handler"
	"arquivo/internal/middleware"
	"arquivo/internal/repository/postgres"
	"arquivo/internal/repository/sqlite"
	"arquivo/internal/session"
	"arquivo/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// Prod writes to rotated log files; dev logs to stdout.
	var logOut io.Writer = os.Stdout
	if cfg.Environment == "prod" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = logFile
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage_backend", cfg.StorageBackend,
		"blob_backend", cfg.BlobBackend,
	)

	ctx := context.Background()

	// Persistence adapter: durable postgres or local sqlite
	var adapter repositories.Adapter
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		adapter = postgres.NewAdapter(pool, tables, logger)
		logger.Info("database connected", "table_prefix", cfg.TablePrefix)
	case "sqlite":
		sq, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite database: %v", err)
		}
		adapter = sq
		logger.Info("sqlite database opened", "path", cfg.SQLitePath)
	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q (want postgres or sqlite)", cfg.StorageBackend)
	}
	defer adapter.Close()

	// Content store: durable S3 or transient local directory
	var blobs repositories.BlobStore
	var localBlobs *storage.LocalBlobStore
	switch cfg.BlobBackend {
	case "s3":
		s3Store, err := storage.NewS3BlobStore(ctx, storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		blobs = s3Store
		logger.Info("object storage connected", "bucket", cfg.S3Bucket)
	case "local":
		local, err := storage.NewLocalBlobStore("")
		if err != nil {
			log.Fatalf("Failed to create local blob store: %v", err)
		}
		blobs = local
		localBlobs = local
		logger.Info("local blob store ready", "dir", local.Dir())
		logger.Warn("local content references do not survive a restart")
	default:
		log.Fatalf("Unknown BLOB_BACKEND %q (want s3 or local)", cfg.BlobBackend)
	}

	sessions := session.NewRegistry(adapter, blobs, logger)

	mux := http.NewServeMux()
	handler.New(sessions, logger).Routes(mux)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Identity → Routes
	var h http.Handler = mux
	h = middleware.Identity()(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.IdentityHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Shut down on SIGINT/SIGTERM, closing sessions before the backends.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	sessions.Shutdown()
	if localBlobs != nil {
		if err := localBlobs.Cleanup(); err != nil {
			logger.Warn("blob cleanup failed", "error", err)
		}
	}
}
