package battle

import (
	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/formula"
	"github.com/cory-johannsen/phoenix/internal/game/stat"
)

// Kind distinguishes player-controlled fighters from anomaly-controlled ones.
type Kind int

const (
	KindPlayer Kind = iota
	KindAnomaly
)

// NoTarget is the TargetIndex of a fighter not yet placed in a battle.
const NoTarget = -1

// Fighter is a battle participant. It is a snapshot of its source taken when
// the battle starts; changes to a Fighter never reach the source record.
//
// Invariant: exactly one of PlayerID and AnomalyType is set, matching Kind.
type Fighter struct {
	Kind Kind
	Name string
	// PlayerID is the chat user controlling a KindPlayer fighter.
	PlayerID string
	// AnomalyType and Script describe a KindAnomaly fighter.
	AnomalyType anomaly.Type
	Script      string
	Image       string
	Level       int

	TargetIndex int

	Health       stat.Stat
	Mana         stat.Stat
	Strength     int
	Agility      int
	Intelligence int
}

// FromCharacter builds a player fighter from a character record.
//
// Precondition: r must be non-nil.
// Postcondition: Returned fighter shares no state with r.
func FromCharacter(name, image string, r *character.Record) Fighter {
	return Fighter{
		Kind:         KindPlayer,
		Name:         name,
		PlayerID:     r.UserID,
		Image:        image,
		Level:        r.Level,
		TargetIndex:  NoTarget,
		Health:       r.Health,
		Mana:         r.Mana,
		Strength:     r.Strength,
		Agility:      r.Agility,
		Intelligence: r.Intelligence,
	}
}

// FromAnomaly builds an anomaly fighter from a generated anomaly.
func FromAnomaly(a anomaly.Anomaly) Fighter {
	return Fighter{
		Kind:         KindAnomaly,
		Name:         a.Name(),
		AnomalyType:  a.Type,
		Script:       a.Definition.Script,
		Image:        a.Image(),
		Level:        a.Level,
		TargetIndex:  NoTarget,
		Health:       a.Health,
		Mana:         a.Mana,
		Strength:     a.Strength,
		Agility:      a.Agility,
		Intelligence: a.Intelligence,
	}
}

// IsPlayer reports whether the fighter is controlled by a chat user.
func (f Fighter) IsPlayer() bool { return f.Kind == KindPlayer }

// IsAnomaly reports whether the fighter is controlled by the anomaly AI.
func (f Fighter) IsAnomaly() bool { return f.Kind == KindAnomaly }

// Alive reports whether the fighter has health left.
func (f Fighter) Alive() bool { return f.Health.Value > 0 }

// HasTarget reports whether the fighter has been assigned a target.
func (f Fighter) HasTarget() bool { return f.TargetIndex != NoTarget }

// CalculateDamage draws the damage of one hit by f.
//
// Precondition: src must be non-nil.
// Postcondition: result >= 0.
func (f Fighter) CalculateDamage(src dice.Source, critical bool) int {
	return formula.Damage(f.Strength, formula.DamageMultiplier(src, critical))
}

// CalculateDodgeChance returns the chance that f dodges a hit from attacker.
func (f Fighter) CalculateDodgeChance(attacker Fighter) formula.Probability {
	return formula.DodgeChance(f.Agility, attacker.Agility)
}

// CalculateCriticalChance returns the chance that f lands a critical hit on defender.
func (f Fighter) CalculateCriticalChance(defender Fighter) formula.Probability {
	return formula.CriticalChance(f.Intelligence, defender.Intelligence)
}

// TakeDamage subtracts amount from health, floored at zero.
//
// Postcondition: Health.Value >= 0.
func (f *Fighter) TakeDamage(amount int) {
	f.Health.SubtractValue(amount)
}
