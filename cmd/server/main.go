package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oaitse/payportal/internal/auth"
	"github.com/oaitse/payportal/internal/config"
	"github.com/oaitse/payportal/internal/logging"
	"github.com/oaitse/payportal/internal/metrics"
	"github.com/oaitse/payportal/internal/server"
	"github.com/oaitse/payportal/internal/service"
	"github.com/oaitse/payportal/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	if cfg.Auth.UsingDefaultSecret() {
		logger.Warn("JWT_SECRET is not set, using development fallback")
	}

	var st store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		st = pg
	} else {
		logger.Warn("DATABASE_URL is not set, using in-memory store")
		st = store.NewMemory()
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.CustomerTokenTTL, cfg.Auth.EmployeeTokenTTL)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	accounts := service.NewAccountService(st, hasher)
	payments := service.NewPaymentService(st)

	var m *metrics.Metrics
	if cfg.HTTP.MetricsEnabled {
		m = metrics.New("payportal")
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Accounts:       accounts,
		Payments:       payments,
		Tokens:         tokens,
		Health:         st,
		Metrics:        m,
		AllowedOrigins: parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		RateLimit:      cfg.RateLimit,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
