package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/flood-watch/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/flood-watch/internal/adapter/kafka"
	"github.com/couchcryptid/flood-watch/internal/alert"
	"github.com/couchcryptid/flood-watch/internal/config"
	"github.com/couchcryptid/flood-watch/internal/notify"
	"github.com/couchcryptid/flood-watch/internal/observability"
	"github.com/couchcryptid/flood-watch/internal/pipeline"
	"github.com/couchcryptid/flood-watch/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// SMS alerting is feature-flagged via SMS_ENABLED / TWILIO_ACCOUNT_SID.
	var notifier pipeline.Notifier
	if cfg.SMSEnabled {
		tw, err := notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
			cfg.TwilioFromNumber, cfg.AlertNumber,
			notify.WithTimeout(cfg.TwilioTimeout))
		if err != nil {
			logger.Error("failed to configure twilio", "error", err)
			os.Exit(1)
		}
		notifier = tw
		logger.Info("sms alerting enabled", "to", cfg.AlertNumber, "cooldown", cfg.AlertCooldown)
	} else {
		logger.Info("sms alerting disabled")
	}

	gate := alert.NewGate(cfg.AlertCooldown)
	p := pipeline.New(s, gate, notifier, logger, metrics)

	srv := httpapi.NewServer(cfg, p, s, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Optional Kafka ingress for gateways that publish readings in bulk.
	var reader *kafkaadapter.Reader
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, p, logger)
		logger.Info("kafka ingress enabled", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
		go func() {
			if err := reader.Run(ctx); err != nil {
				logger.Error("kafka ingress error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if err := s.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
