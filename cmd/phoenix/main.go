// Package main provides the Phoenix bot binary: it connects to Discord,
// PostgreSQL and serves the gRPC health service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/phoenix/internal/config"
	"github.com/cory-johannsen/phoenix/internal/observability"
	"github.com/cory-johannsen/phoenix/internal/server"
)

const (
	dbHealthInterval = 30 * time.Second
	dbHealthTimeout  = 5 * time.Second
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "phoenix")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer observability.Sync(logger) //nolint:errcheck

	app, cleanup, err := initializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing bot", zap.Error(err))
	}
	defer cleanup()

	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			ticker := time.NewTicker(dbHealthInterval)
			defer ticker.Stop()
			for {
				status := healthpb.HealthCheckResponse_SERVING
				if err := app.Pool.Health(ctx, dbHealthTimeout); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
					status = healthpb.HealthCheckResponse_NOT_SERVING
				}
				app.Health.SetServingStatus("", status)
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	})

	lifecycle.Add("health", &server.FuncService{
		StartFn: func(context.Context) error {
			lis, err := net.Listen("tcp", cfg.Health.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.Health.Addr(), err)
			}
			logger.Info("gRPC health server listening",
				zap.String("addr", lis.Addr().String()),
			)
			return app.GRPC.Serve(lis)
		},
		StopFn: func(context.Context) error {
			app.Health.Shutdown()
			app.GRPC.GracefulStop()
			return nil
		},
	})

	lifecycle.Add("discord", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			if err := app.Adapter.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
		StopFn: func(context.Context) error {
			return app.Adapter.Stop()
		},
	})

	logger.Info("phoenix initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("health_addr", cfg.Health.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}
