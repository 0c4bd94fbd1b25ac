//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/bot"
	"github.com/cory-johannsen/phoenix/internal/config"
	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/storage/postgres"
)

var storageSet = wire.NewSet(
	providePool,
	provideDB,
	postgres.NewCharacterRepository,
	postgres.NewCooldownRepository,
	wire.Bind(new(bot.CharacterStore), new(*postgres.CharacterRepository)),
	wire.Bind(new(bot.CooldownStore), new(*postgres.CooldownRepository)),
)

var gameSet = wire.NewSet(
	provideRoller,
	wire.Bind(new(dice.Source), new(*dice.Roller)),
	provideCatalog,
	anomaly.NewGenerator,
	provideController,
	provideScripts,
	provideAnomalyAI,
)

var botSet = wire.NewSet(
	provideBotConfig,
	bot.New,
	provideAdapter,
	provideHealth,
	provideGRPCServer,
	newApp,
)

func initializeApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		wire.FieldsOf(new(config.Config), "Database", "Discord", "Game", "Scripting"),
		storageSet,
		gameSet,
		botSet,
	)
	return nil, nil, nil
}
