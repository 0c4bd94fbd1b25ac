package battle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/scripting"
)

// Behaviour picks an anomaly's action from a named script.
//
// Postcondition: Returns ok == false when the script has no opinion.
type Behaviour interface {
	ChooseAction(script string, self, target scripting.FighterInfo) (name string, ok bool)
}

// AnomalyAI chooses actions for anomaly fighters. Fighters with a Script are
// asked through Behaviour first; anything else, including an unknown action
// name from a script, falls back to attacking.
type AnomalyAI struct {
	behaviour Behaviour
	logger    *zap.Logger
}

// NewAnomalyAI creates an AnomalyAI. behaviour may be nil to always attack.
//
// Precondition: logger must be non-nil.
func NewAnomalyAI(behaviour Behaviour, logger *zap.Logger) *AnomalyAI {
	return &AnomalyAI{behaviour: behaviour, logger: logger}
}

// ChooseAction implements ActionProvider.
func (a *AnomalyAI) ChooseAction(_ context.Context, s Snapshot) (Action, error) {
	self := s.Actor()
	if a.behaviour == nil || self.Script == "" {
		return ActionAttack, nil
	}
	name, ok := a.behaviour.ChooseAction(self.Script, Info(self), Info(s.Targeted()))
	if !ok {
		return ActionAttack, nil
	}
	action, err := ParseAction(name)
	if err != nil {
		a.logger.Warn("anomaly script chose unknown action",
			zap.String("script", self.Script),
			zap.String("action", name),
		)
		return ActionAttack, nil
	}
	return action, nil
}

// Info converts f into the snapshot handed to behaviour scripts.
func Info(f Fighter) scripting.FighterInfo {
	kind := "player"
	if f.IsAnomaly() {
		kind = "anomaly"
	}
	return scripting.FighterInfo{
		Name:         f.Name,
		Kind:         kind,
		Level:        f.Level,
		Health:       f.Health.Value,
		MaxHealth:    f.Health.Max,
		Mana:         f.Mana.Value,
		MaxMana:      f.Mana.Max,
		Strength:     f.Strength,
		Agility:      f.Agility,
		Intelligence: f.Intelligence,
	}
}

// errNoProvider is returned by Dispatcher when the fighter's kind has no provider.
var errNoProvider = errors.New("no action provider for fighter")

// Dispatcher routes each turn to the provider for the acting fighter's kind.
type Dispatcher struct {
	Players   ActionProvider
	Anomalies ActionProvider
}

// ChooseAction implements ActionProvider.
func (d Dispatcher) ChooseAction(ctx context.Context, s Snapshot) (Action, error) {
	p := d.Players
	if s.Actor().IsAnomaly() {
		p = d.Anomalies
	}
	if p == nil {
		return ActionUnknown, errNoProvider
	}
	return p.ChooseAction(ctx, s)
}
