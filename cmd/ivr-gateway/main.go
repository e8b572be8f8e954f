package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vango-go/vai-ivr/internal/dotenv"
	"github.com/vango-go/vai-ivr/pkg/gateway/config"
	gatewayserver "github.com/vango-go/vai-ivr/pkg/gateway/server"
)

type gatewayDeps struct {
	loadConfig func() (config.Config, error)
	newGateway func(config.Config, *slog.Logger) *gatewayserver.Server
}

func defaultGatewayDeps() gatewayDeps {
	return gatewayDeps{
		loadConfig: config.LoadFromEnv,
		newGateway: gatewayserver.New,
	}
}

func runGateway(ctx context.Context, logger *slog.Logger, deps gatewayDeps) error {
	if deps.loadConfig == nil || deps.newGateway == nil {
		return errors.New("missing gateway dependency")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gw := deps.newGateway(cfg, logger)
	return gw.Run(ctx)
}

func runMain(stderr io.Writer, deps gatewayDeps) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := dotenv.Load(".env"); err != nil {
		fmt.Fprintf(stderr, "ivr-gateway: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runGateway(ctx, logger, deps); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "ivr-gateway: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(os.Stderr, defaultGatewayDeps()))
}
