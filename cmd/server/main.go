package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photoguess/internal/config"
	"photoguess/internal/db"
	"photoguess/internal/server"
	"photoguess/internal/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	var conn *gorm.DB
	if os.Getenv("DATABASE_URL") != "" {
		opened, err := db.Open()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.Migrate(opened); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		if err := db.ConfigurePool(opened,
			cfg.DBMaxOpenConns,
			cfg.DBMaxIdleConns,
			time.Duration(cfg.DBConnMaxLifetimeSeconds)*time.Second,
			time.Duration(cfg.DBConnMaxIdleTimeSeconds)*time.Second,
		); err != nil {
			log.Fatal().Err(err).Msg("failed to configure database pool")
		}
		conn = opened
		log.Info().Msg("database connection established")
	} else {
		log.Warn().Msg("DATABASE_URL not set; running without durable storage")
	}

	var blobs storage.Store
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create S3 storage")
		}
		blobs = s3Store
	} else {
		log.Warn().Msg("S3_BUCKET not set; storing photo blobs in memory")
		blobs = storage.NewMemory()
	}

	srv := server.New(conn, blobs, cfg)

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("photoguess server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
