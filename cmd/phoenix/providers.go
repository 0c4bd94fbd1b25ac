package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/phoenix/internal/bot"
	"github.com/cory-johannsen/phoenix/internal/config"
	"github.com/cory-johannsen/phoenix/internal/discord"
	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/scripting"
	"github.com/cory-johannsen/phoenix/internal/storage/postgres"
)

// App holds the long-running components main hands to the lifecycle.
type App struct {
	Pool    *postgres.Pool
	Adapter *discord.Adapter
	GRPC    *grpc.Server
	Health  *health.Server
}

func newApp(pool *postgres.Pool, adapter *discord.Adapter, grpcServer *grpc.Server, hs *health.Server) *App {
	return &App{Pool: pool, Adapter: adapter, GRPC: grpcServer, Health: hs}
}

func providePool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*postgres.Pool, func(), error) {
	start := time.Now()
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pool, pool.Close, nil
}

func provideDB(pool *postgres.Pool) *pgxpool.Pool { return pool.DB() }

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
}

func provideCatalog(cfg config.GameConfig, logger *zap.Logger) (*anomaly.Catalog, error) {
	if cfg.CatalogDir == "" {
		return anomaly.DefaultCatalog(), nil
	}
	catalog, err := anomaly.LoadCatalog(cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("loading anomaly catalog: %w", err)
	}
	logger.Info("anomaly catalog loaded",
		zap.String("dir", cfg.CatalogDir),
		zap.Int("archetypes", len(catalog.All())),
	)
	return catalog, nil
}

func provideController(src dice.Source, cfg config.GameConfig, logger *zap.Logger) *battle.Controller {
	return battle.NewController(src, battle.ControllerConfig{
		ActionTimeout: cfg.ActionTimeout,
		MaxTurns:      cfg.MaxTurns,
	}, logger)
}

// provideScripts loads the behaviour scripts; an empty directory disables
// scripting and yields a nil manager.
func provideScripts(cfg config.ScriptingConfig, roller *dice.Roller, logger *zap.Logger) (*scripting.Manager, func(), error) {
	if cfg.Dir == "" {
		return nil, func() {}, nil
	}
	start := time.Now()
	mgr := scripting.NewManager(roller, logger)
	keys, err := mgr.LoadDir(cfg.Dir, cfg.InstructionLimit)
	if err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("loading behaviour scripts: %w", err)
	}
	logger.Info("behaviour scripts loaded",
		zap.String("dir", cfg.Dir),
		zap.Strings("scripts", keys),
		zap.Duration("elapsed", time.Since(start)),
	)
	return mgr, mgr.Close, nil
}

func provideAnomalyAI(scripts *scripting.Manager, logger *zap.Logger) battle.ActionProvider {
	if scripts == nil {
		return battle.NewAnomalyAI(nil, logger)
	}
	return battle.NewAnomalyAI(scripts, logger)
}

func provideBotConfig(cfg config.Config) bot.Config {
	return bot.Config{
		ActionTimeout:      cfg.Game.ActionTimeout,
		ConfirmTimeout:     cfg.Game.ConfirmTimeout,
		ClassChoiceTimeout: cfg.Game.ClassChoiceTimeout,
		RestCooldown:       cfg.Game.RestCooldown,
		OwnerIDs:           cfg.Discord.OwnerIDs,
	}
}

func provideAdapter(cfg config.DiscordConfig, b *bot.Bot, logger *zap.Logger) (*discord.Adapter, error) {
	return discord.New(discord.Config{
		Token:       cfg.Token,
		GuildID:     cfg.GuildID,
		PageTimeout: cfg.PageTimeout,
	}, b, logger)
}

func provideHealth() *health.Server {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

func provideGRPCServer(hs *health.Server) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	return s
}
