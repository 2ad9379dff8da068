// Command mockapi serves the in-memory clinic backend for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/octabyte/medtrack-gommon/config"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/mockapi"
	"github.com/octabyte/medtrack-gommon/otel"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
)

const serviceName = "medtrack-mockapi"

type seedUser struct {
	name, email string
	role        enums.Role
}

var seedUsers = []seedUser{
	{"Ana Cruz", "patient@medtrack.local", enums.RolePatient},
	{"Ben Reyes", "staff@medtrack.local", enums.RoleStaff},
	{"Dee Santos", "admin@medtrack.local", enums.RoleAdmin},
}

func main() {
	seed := flag.Bool("seed", true, "create demo accounts (password: secret)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err = cfg.ValidateMockAPI(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err = logger.Init(cfg.LoggerConfig(serviceName)); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	shutdownTracing, err := otel.Setup(cfg.TracingConfig(serviceName))
	if err != nil {
		zap.L().Fatal("failed to init tracing", zap.Error(err))
	}

	server := mockapi.New(mockapi.Options{
		PageSize: cfg.MockAPI.PageSize,
		Tracing:  cfg.Tracing.Enabled,
		Mailer: func(email, code string) {
			zap.L().Info("verification code", zap.String("email", email), zap.String("code", code))
		},
	})

	if *seed {
		for _, u := range seedUsers {
			if _, err := server.Seed(u.name, u.email, "secret", u.role, true); err != nil {
				zap.L().Fatal("failed to seed", zap.String("email", u.email), zap.Error(err))
			}
		}
	}

	go func() {
		zap.L().Info("listening", zap.String("addr", cfg.MockAPI.Addr))
		if err := server.Echo().Start(cfg.MockAPI.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("mockapi listen", zap.Error(err))
		}
	}()

	waitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Echo().Shutdown(ctx)
	_ = shutdownTracing(ctx)
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	zap.L().Info("shutting down", zap.String("signal", sig.String()))
}
