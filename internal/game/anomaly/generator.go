package anomaly

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/formula"
	"github.com/cory-johannsen/phoenix/internal/game/region"
	"github.com/cory-johannsen/phoenix/internal/game/stat"
)

// ErrNoValidArchetype is returned when no archetype spawns in the requested region.
var ErrNoValidArchetype = errors.New("no valid anomaly archetype for region")

// Variant is an optional mutation of a generated anomaly.
type Variant string

const (
	NoVariant Variant = ""
	Ghost     Variant = "ghost"
	Giant     Variant = "giant"
)

// Label returns the display prefix of the variant, or "" for none.
func (v Variant) Label() string {
	switch v {
	case Ghost:
		return "Ghost"
	case Giant:
		return "Giant"
	}
	return ""
}

// Anomaly is one generated encounter.
//
// Invariant: every stat, Level and both rewards are >= 1.
type Anomaly struct {
	Definition   Definition
	Type         Type
	Variant      Variant
	Health       stat.Stat
	Mana         stat.Stat
	Strength     int
	Agility      int
	Intelligence int
	Level        int
	Rewards      formula.Rewards
}

// Name returns the display name, prefixed by the variant when present.
func (a Anomaly) Name() string {
	if l := a.Variant.Label(); l != "" {
		return l + " " + a.Definition.Name
	}
	return a.Definition.Name
}

// Image returns the archetype's image URL.
func (a Anomaly) Image() string { return a.Definition.Image }

func (a Anomaly) potencyInput() formula.PotencyInput {
	return formula.PotencyInput{
		Health:       a.Health.Max,
		Mana:         a.Mana.Max,
		Strength:     a.Strength,
		Agility:      a.Agility,
		Intelligence: a.Intelligence,
	}
}

// Base returns the archetype at its unscaled stats, with no variant and no
// rewards. It is used to show base attributes in a bestiary.
func (d Definition) Base() Anomaly {
	return Anomaly{
		Definition:   d,
		Type:         d.Type,
		Health:       d.BaseHealth(),
		Mana:         d.BaseMana(),
		Strength:     d.Strength,
		Agility:      d.Agility,
		Intelligence: d.Intelligence,
		Level:        1,
	}
}

// Generator produces anomalies from a catalog.
//
// Generator is safe for concurrent use when its Source is.
type Generator struct {
	catalog *Catalog
	src     dice.Source
}

// NewGenerator creates a Generator drawing archetypes from catalog.
//
// Precondition: catalog and src must be non-nil.
func NewGenerator(catalog *Catalog, src dice.Source) *Generator {
	return &Generator{catalog: catalog, src: src}
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *Catalog { return g.catalog }

// Generate creates an anomaly for a player of playerLevel in a region of type t.
//
// The archetype is chosen uniformly among those spawning in t. The effective
// level is playerLevel jittered by U[LevelJitterMin, LevelJitterMax), floored
// at 1. Each base stat is scaled deterministically by that level, a variant
// may be rolled, and potency-based rewards are drawn.
//
// Postcondition: Returns ErrNoValidArchetype (wrapped) iff no archetype spawns
// in t; otherwise every stat, the level and both rewards are >= 1.
func (g *Generator) Generate(playerLevel int, t region.Type) (Anomaly, error) {
	candidates := g.catalog.ForRegion(t)
	if len(candidates) == 0 {
		return Anomaly{}, fmt.Errorf("generating anomaly in %q: %w", t, ErrNoValidArchetype)
	}
	def := candidates[dice.Pick(g.src, len(candidates))]

	level := EffectiveLevel(g.src, playerLevel)
	a := Anomaly{
		Definition:   def,
		Type:         def.Type,
		Health:       stat.New(formula.ScaleStat(def.Health, level, formula.Tuning.GrowthHealth)),
		Mana:         stat.New(formula.ScaleStat(def.Mana, level, formula.Tuning.GrowthMana)),
		Strength:     formula.ScaleStat(def.Strength, level, formula.Tuning.GrowthStrength),
		Agility:      formula.ScaleStat(def.Agility, level, formula.Tuning.GrowthAgility),
		Intelligence: formula.ScaleStat(def.Intelligence, level, formula.Tuning.GrowthIntelligence),
		Level:        level,
	}
	applyVariant(&a, rollVariant(g.src))

	potency := formula.RollPotency(g.src, a.potencyInput())
	a.Rewards = formula.RollRewards(g.src, potency, level)
	return a, nil
}

// EffectiveLevel jitters playerLevel into the encounter level.
//
// Precondition: src must be non-nil.
// Postcondition: result >= 1.
func EffectiveLevel(src dice.Source, playerLevel int) int {
	if playerLevel < 1 {
		playerLevel = 1
	}
	jitter := dice.Uniform(src, formula.Tuning.LevelJitterMin, formula.Tuning.LevelJitterMax)
	level := int(float64(playerLevel) * jitter)
	if level < 1 {
		return 1
	}
	return level
}

func rollVariant(src dice.Source) Variant {
	roll := src.Float64()
	switch {
	case roll < formula.Tuning.GiantChance:
		return Giant
	case roll < formula.Tuning.GiantChance+formula.Tuning.GhostChance:
		return Ghost
	}
	return NoVariant
}

func applyVariant(a *Anomaly, v Variant) {
	a.Variant = v
	switch v {
	case Giant:
		a.Health = stat.New(scale(a.Health.Max, formula.Tuning.GiantHealth))
		a.Strength = scale(a.Strength, formula.Tuning.GiantStrength)
		a.Agility = scale(a.Agility, formula.Tuning.GiantAgility)
	case Ghost:
		a.Health = stat.New(scale(a.Health.Max, formula.Tuning.GhostHealth))
		a.Agility = scale(a.Agility, formula.Tuning.GhostAgility)
	}
}

func scale(v int, m float64) int {
	s := int(float64(v) * m)
	if s < 1 {
		return 1
	}
	return s
}
