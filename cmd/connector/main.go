package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"connector/internal/amqp"
	"connector/internal/bot"
	"connector/internal/botclient"
	"connector/internal/config"
	"connector/internal/health"
	apphttp "connector/internal/http"
	"connector/internal/journal"
	applog "connector/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Connector stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Connector stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := botclient.New(botclient.Config{
		BaseURL:      cfg.BotServiceURL,
		APIKeyHeader: cfg.BotServiceAPIKeyHeader,
		APIKeySecret: cfg.BotServiceAPIKeySecret,
		Timeout:      cfg.RequestTimeout,
	}, logger)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}
	logger.Info("Authorized on telegram", "bot", api.Self.UserName)

	// Command journal (optional)
	var jour *journal.Journal
	if cfg.JournalDBPath != "" {
		jour, err = journal.Open(cfg.JournalDBPath)
		if err != nil {
			return fmt.Errorf("open command journal: %w", err)
		}
		defer jour.Close()
		logger.Info("Command journal enabled", "path", cfg.JournalDBPath)
	}

	// AMQP event publishing (optional)
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			events = nil
		} else {
			defer events.Close()
			logger.Info("AMQP event publishing enabled",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	b := bot.New(api, client, jour, events, logger)

	srv := apphttp.NewServer(":"+cfg.Port, health.NewAggregator(client))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting health endpoint", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return b.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
