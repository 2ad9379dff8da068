// Command medtrack is a terminal client for the clinic API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/config"
	"github.com/octabyte/medtrack-gommon/otel"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
)

const serviceName = "medtrack-cli"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 2
	}

	if err = logger.Init(cfg.LoggerConfig(serviceName, "stderr")); err != nil {
		fmt.Fprintf(stderr, "failed to init logger: %v\n", err)
		return 2
	}
	defer logger.Sync()

	shutdown, err := otel.Setup(cfg.TracingConfig(serviceName))
	if err != nil {
		fmt.Fprintf(stderr, "failed to init tracing: %v\n", err)
		return 2
	}
	defer func() { _ = shutdown(context.Background()) }()

	a, closeApp, err := newApp(ctx, cfg, stdout, zap.L())
	if err != nil {
		fmt.Fprintf(stderr, "failed to start: %v\n", err)
		return 1
	}
	defer closeApp()

	if err = a.run(ctx, args); err != nil {
		fmt.Fprintln(stderr, "error:", describe(err))
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

// describe turns err into the one line a user sees.
func describe(err error) string {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
