// Package main запускает сервис заказа СИЗ.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/sizbot-system/internal/config"
	"github.com/mmeshcher/sizbot-system/internal/dialog"
	"github.com/mmeshcher/sizbot-system/internal/document"
	"github.com/mmeshcher/sizbot-system/internal/handler"
	"github.com/mmeshcher/sizbot-system/internal/identity"
	"github.com/mmeshcher/sizbot-system/internal/middleware"
	"github.com/mmeshcher/sizbot-system/internal/model"
	"github.com/mmeshcher/sizbot-system/internal/repository"
	"github.com/mmeshcher/sizbot-system/internal/telegram"
)

// repo объединяет контракты хранилища, нужные сервису. Оба бэкенда,
// postgres и sqlite, реализуют его целиком.
type repo interface {
	identity.UserStore
	dialog.CatalogStore
	dialog.RecordStore
	SeedCatalogIfEmpty(ctx context.Context, entries []model.CatalogEntry) error
	Close() error
}

func openRepository(cfg *config.Config) (repo, error) {
	if cfg.DatabaseURI != "" {
		return repository.NewPostgresRepository(cfg.DatabaseURI)
	}
	return repository.NewSQLiteRepository(cfg.SQLitePath)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	store, err := openRepository(cfg)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer store.Close()

	if err := store.SeedCatalogIfEmpty(context.Background(), repository.DefaultCatalog()); err != nil {
		sugar.Fatalw("catalog seed error", "error", err.Error())
	}

	resolver := identity.NewResolver(store)
	docs := document.NewFSProvider(cfg.DocumentsDir)
	engine := dialog.NewEngine(store, store, resolver, docs, logger)

	secret := middleware.NewSecretMiddleware(cfg.WebhookSecret)
	h := handler.NewHandler(engine, docs, logger, secret)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск long polling Telegram при наличии токена
	if cfg.TelegramToken != "" {
		poller := telegram.NewPoller(telegram.NewClient("", cfg.TelegramToken), engine, docs, logger)
		g.Go(func() error {
			sugar.Info("starting telegram poller")
			return poller.Run(ctx)
		})
	}

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting sizbot server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
