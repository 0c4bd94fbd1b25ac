// Package simulate plays unattended battles between a character build and
// generated anomalies to report how a level and region are balanced.
package simulate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/formula"
	"github.com/cory-johannsen/phoenix/internal/game/region"
)

// simulatedUser is the player ID of every simulated character.
const simulatedUser = "simulation"

// Config describes one simulation run.
type Config struct {
	Class   character.Class
	Level   int
	Region  region.Type
	Battles int
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, ok := character.LookupClass(c.Class); !ok {
		return fmt.Errorf("unknown class %q", c.Class)
	}
	if c.Level < 1 {
		return fmt.Errorf("level must be >= 1, got %d", c.Level)
	}
	if c.Battles < 1 {
		return fmt.Errorf("battles must be >= 1, got %d", c.Battles)
	}
	if c.Region == region.City {
		return errors.New("anomalies do not spawn in cities")
	}
	return nil
}

// TypeStats counts the battles fought against one anomaly type.
type TypeStats struct {
	Encounters int
	Wins       int
}

// Report summarises a simulation run.
type Report struct {
	Config      Config
	Wins        int
	Losses      int
	Aborted     int
	TotalRounds int
	MinRounds   int
	MaxRounds   int
	// Rewards sums the rewards of every victory.
	Rewards formula.Rewards
	ByType  map[anomaly.Type]TypeStats
}

// Fought returns the number of battles that resolved.
func (r Report) Fought() int { return r.Wins + r.Losses }

// WinRate returns the fraction of resolved battles won, or 0 when none resolved.
func (r Report) WinRate() float64 {
	if r.Fought() == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Fought())
}

// AverageRounds returns the mean number of rounds of a resolved battle.
func (r Report) AverageRounds() float64 {
	if r.Fought() == 0 {
		return 0
	}
	return float64(r.TotalRounds) / float64(r.Fought())
}

// Simulator runs battles with the production generator and controller.
type Simulator struct {
	generator  *anomaly.Generator
	controller *battle.Controller
	anomalyAI  battle.ActionProvider
	src        dice.Source
	logger     *zap.Logger
}

// New creates a Simulator.
//
// Precondition: every argument must be non-nil.
func New(generator *anomaly.Generator, controller *battle.Controller, anomalyAI battle.ActionProvider, src dice.Source, logger *zap.Logger) *Simulator {
	return &Simulator{generator: generator, controller: controller, anomalyAI: anomalyAI, src: src, logger: logger}
}

// Character builds a fresh character of class raised to level with the same
// random upgrades a player would earn.
func Character(class character.Class, level int, src dice.Source) (*character.Record, error) {
	rec, err := character.NewRecord(simulatedUser, class, src)
	if err != nil {
		return nil, err
	}
	for rec.Level < level {
		rec.AddXP(formula.XPRequiredForLevelUp(rec.Level))
		rec.LevelUp(src)
	}
	return rec, nil
}

// Run fights cfg.Battles battles, each with a freshly built character, the
// player always attacking. Battles that hit the controller's turn limit are
// counted as aborted.
//
// Precondition: cfg must be valid.
// Postcondition: Returns the report, or the first generation or controller
// error other than a turn limit.
func (s *Simulator) Run(ctx context.Context, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	rep := Report{Config: cfg, ByType: make(map[anomaly.Type]TypeStats)}
	provider := battle.Dispatcher{Players: battle.AlwaysAttack, Anomalies: s.anomalyAI}

	for i := 0; i < cfg.Battles; i++ {
		rec, err := Character(cfg.Class, cfg.Level, s.src)
		if err != nil {
			return rep, err
		}
		foe, err := s.generator.Generate(rec.Level, cfg.Region)
		if err != nil {
			return rep, fmt.Errorf("generating anomaly: %w", err)
		}
		b, err := battle.New([]battle.Fighter{
			battle.FromCharacter(string(cfg.Class), "", rec),
			battle.FromAnomaly(foe),
		})
		if err != nil {
			return rep, err
		}

		res, err := s.controller.Run(ctx, b, provider, nil)
		if errors.Is(err, battle.ErrTurnLimit) {
			rep.Aborted++
			continue
		}
		if err != nil {
			return rep, fmt.Errorf("battle %d: %w", i+1, err)
		}

		stats := rep.ByType[foe.Type]
		stats.Encounters++
		rounds := len(res.Rounds)
		rep.TotalRounds += rounds
		if rep.Fought() == 0 || rounds < rep.MinRounds {
			rep.MinRounds = rounds
		}
		rep.MaxRounds = max(rep.MaxRounds, rounds)
		if res.Winner.IsPlayer() {
			rep.Wins++
			stats.Wins++
			rep.Rewards.XP += foe.Rewards.XP
			rep.Rewards.Gold += foe.Rewards.Gold
		} else {
			rep.Losses++
		}
		rep.ByType[foe.Type] = stats
	}

	s.logger.Info("simulation finished",
		zap.String("class", string(cfg.Class)),
		zap.Int("level", cfg.Level),
		zap.String("region", string(cfg.Region)),
		zap.Int("wins", rep.Wins),
		zap.Int("losses", rep.Losses),
		zap.Int("aborted", rep.Aborted),
	)
	return rep, nil
}
