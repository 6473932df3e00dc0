package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"vitalplan/internal/app"
	"vitalplan/internal/config"
	"vitalplan/internal/database"
	"vitalplan/internal/logging"
	"vitalplan/internal/metrics"
	"vitalplan/internal/storage"
	"vitalplan/internal/telegram"
)

const metricsRetentionDays = 30

func main() {
	// 1. Load Configuration
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to read .env: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flush, err := logging.Setup(logging.Options{Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer flush()

	ctx := context.Background()

	// 2. Storage
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		zap.S().Fatalw("failed to initialize database", "error", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	sessions := telegram.NewSessionRepository(db.SQL)

	archive, err := storage.NewPlanArchive(filepath.Join(filepath.Dir(cfg.DatabasePath), "plans"))
	if err != nil {
		zap.S().Fatalw("failed to initialize plan archive", "error", err)
	}

	// 3. Generators
	generator, closeGenerator, err := app.NewGenerator(ctx, cfg, metricsStore)
	if err != nil {
		zap.S().Fatalw("failed to initialize plan generator", "error", err)
	}
	defer closeGenerator()
	analyzer := app.NewAnalyzer(cfg, nil)

	newStore := func(chatID int64) *app.Store {
		return app.New(app.Deps{
			Generator: generator,
			Analyzer:  analyzer,
			Archive:   archive,
			Owner:     fmt.Sprintf("chat-%d", chatID),
		})
	}

	// 4. Telegram Bot
	bot, err := telegram.NewBot(cfg, newStore, sessions, metricsStore)
	if err != nil {
		zap.S().Fatalw("failed to initialize telegram bot", "error", err)
	}
	defer bot.Close()

	// 5. Maintenance
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		n, err := metricsStore.Cleanup(metricsRetentionDays)
		if err != nil {
			zap.S().Errorw("metrics cleanup failed", "error", err)
		} else {
			zap.S().Infow("metrics cleanup", "removed", n)
		}
		if _, err := sessions.CleanupExpired(context.Background(), time.Now()); err != nil {
			zap.S().Errorw("session cleanup failed", "error", err)
		}
	}); err != nil {
		zap.S().Fatalw("failed to schedule cleanup", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           bot.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infow("telegram bot server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zap.S().Errorw("server forced to shutdown", "error", err)
	}

	zap.S().Info("server exiting")
}
