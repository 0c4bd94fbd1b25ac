package battle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
)

// ActionProvider supplies the action of the fighter whose turn it is.
// Implementations must honour ctx cancellation.
type ActionProvider interface {
	ChooseAction(ctx context.Context, s Snapshot) (Action, error)
}

// ActionProviderFunc adapts a function to ActionProvider.
type ActionProviderFunc func(ctx context.Context, s Snapshot) (Action, error)

// ChooseAction calls f.
func (f ActionProviderFunc) ChooseAction(ctx context.Context, s Snapshot) (Action, error) {
	return f(ctx, s)
}

// AlwaysAttack is an ActionProvider that attacks every turn.
var AlwaysAttack = ActionProviderFunc(func(context.Context, Snapshot) (Action, error) {
	return ActionAttack, nil
})

// RoundObserver is called after every resolved round with the round and the
// battle state that follows it.
type RoundObserver func(ctx context.Context, r Round, after Snapshot)

// ControllerConfig tunes a Controller.
type ControllerConfig struct {
	// ActionTimeout bounds each ChooseAction call. Zero means no bound beyond ctx.
	ActionTimeout time.Duration
	// MaxTurns aborts battles that run longer. Zero means no limit.
	MaxTurns int
}

// Controller drives a Battle turn by turn until it resolves.
//
// Controller holds no per-battle state and is safe for concurrent use on
// distinct battles.
type Controller struct {
	src    dice.Source
	cfg    ControllerConfig
	logger *zap.Logger
}

// NewController creates a Controller drawing randomness from src.
//
// Precondition: src and logger must be non-nil.
func NewController(src dice.Source, cfg ControllerConfig, logger *zap.Logger) *Controller {
	return &Controller{src: src, cfg: cfg, logger: logger}
}

// Run repeatedly asks provider for the current fighter's action, resolves it,
// and reports the round to onRound, until the battle has a winner.
//
// A provider that times out, or a cancelled ctx, aborts the battle with
// ErrActionTimeout; no action is ever chosen on the fighter's behalf.
//
// Precondition: b must be an unresolved battle; provider must be non-nil;
// onRound may be nil.
// Postcondition: On success the returned Result has a Winner and b is resolved.
func (c *Controller) Run(ctx context.Context, b *Battle, provider ActionProvider, onRound RoundObserver) (Result, error) {
	log := c.logger.With(zap.String("battle_id", b.ID().String()))
	log.Debug("battle started", zap.Int("fighters", b.Len()))

	for turn := 1; !b.Resolved(); turn++ {
		if c.cfg.MaxTurns > 0 && turn > c.cfg.MaxTurns {
			return Result{}, fmt.Errorf("battle %s: %w (%d)", b.ID(), ErrTurnLimit, c.cfg.MaxTurns)
		}
		snap := b.Snapshot()
		actor := snap.Actor()

		action, err := c.choose(ctx, provider, snap)
		if err != nil {
			if isTimeout(err) {
				log.Info("battle abandoned", zap.String("fighter", actor.Name), zap.Int("round", snap.Round))
				return Result{}, fmt.Errorf("battle %s, turn of %q: %w", b.ID(), actor.Name, ErrActionTimeout)
			}
			return Result{}, fmt.Errorf("battle %s, turn of %q: choosing action: %w", b.ID(), actor.Name, err)
		}

		round, err := b.RunAction(action, c.src)
		if err != nil {
			return Result{}, fmt.Errorf("battle %s, turn of %q: %w", b.ID(), actor.Name, err)
		}
		log.Debug("battle round",
			zap.Int("round", round.Number),
			zap.String("actor", round.Actor.Name),
			zap.String("target", round.Target.Name),
			zap.Stringer("action", round.Action),
			zap.Int("damage", round.Damage),
			zap.Bool("dodged", round.Dodged),
			zap.Bool("critical", round.Critical),
		)
		if onRound != nil {
			onRound(ctx, round, b.Snapshot())
		}
	}

	res, _ := b.Result()
	log.Info("battle resolved",
		zap.String("winner", res.Winner.Name),
		zap.Int("rounds", len(res.Rounds)),
		zap.Int("defeated", len(res.Defeated)),
	)
	return res, nil
}

func (c *Controller) choose(ctx context.Context, provider ActionProvider, snap Snapshot) (Action, error) {
	if err := ctx.Err(); err != nil {
		return ActionUnknown, err
	}
	actx := ctx
	if c.cfg.ActionTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, c.cfg.ActionTimeout)
		defer cancel()
	}
	return provider.ChooseAction(actx, snap)
}

func isTimeout(err error) bool {
	return errors.Is(err, ErrActionTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
