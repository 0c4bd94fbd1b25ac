// Package formula holds the pure, RNG-driven numeric rules of the game:
// dodge and critical chances, damage, level thresholds, anomaly stat scaling
// and reward potency. Every tunable constant lives in Tuning.
package formula

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
)

// Probability is a whole-number percentage in [0, 100].
type Probability int

// NewProbability clamps percent into [0, 100].
//
// Postcondition: 0 <= result <= 100.
func NewProbability(percent int) Probability {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return Probability(percent)
}

// Percent returns the probability as an int percentage.
func (p Probability) Percent() int { return int(p) }

// Roll converts the probability into a weighted coin flip.
//
// Precondition: src must be non-nil.
// Postcondition: Returns false for 0% and true for 100% without consulting src
// beyond a single draw.
func (p Probability) Roll(src dice.Source) bool {
	return dice.Chance(src, float64(p)/100)
}

// String renders the probability as "N%".
func (p Probability) String() string { return fmt.Sprintf("%d%%", int(p)) }

// ratioChance computes trunc((a+1)/(b+1) * k1 * k2) clamped to [0, 100].
// A non-positive denominator yields 0 instead of Inf or NaN.
func ratioChance(a, b int, k1, k2 float64) Probability {
	denom := float64(b + 1)
	if denom <= 0 {
		return 0
	}
	ratio := float64(a+1) / denom
	v := ratio * k1 * k2
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return NewProbability(int(v))
}

// DodgeChance returns the chance that a defender dodges an attacker's hit.
// Higher relative defender agility yields a higher chance.
//
// Postcondition: 0 <= result <= 100.
func DodgeChance(defenderAgility, attackerAgility int) Probability {
	return ratioChance(defenderAgility, attackerAgility, Tuning.DodgeScale, Tuning.DodgeFactor)
}

// CriticalChance returns the chance an attacker lands a critical hit.
//
// Postcondition: 0 <= result <= 100.
func CriticalChance(attackerIntelligence, defenderIntelligence int) Probability {
	return ratioChance(attackerIntelligence, defenderIntelligence, Tuning.CriticalScale, Tuning.CriticalFactor)
}

// DamageMultiplier draws the damage multiplier for one hit: uniform in
// [DamageMin, DamageMax], plus an independent uniform critical bonus in
// [CriticalBonusMin, CriticalBonusMax) when critical is true.
//
// Precondition: src must be non-nil.
// Postcondition: result >= DamageMin; critical results are >= the same draw without the bonus.
func DamageMultiplier(src dice.Source, critical bool) float64 {
	m := dice.Uniform(src, Tuning.DamageMin, Tuning.DamageMax)
	if critical {
		m += dice.Uniform(src, Tuning.CriticalBonusMin, Tuning.CriticalBonusMax)
	}
	return m
}

// Damage applies multiplier to strength and truncates toward zero.
//
// Postcondition: result >= 0 for non-negative inputs.
func Damage(strength int, multiplier float64) int {
	d := int(float64(strength) * multiplier)
	if d < 0 {
		return 0
	}
	return d
}

// XPRequiredForLevelUp returns the XP needed to advance past level.
//
// Postcondition: Returns trunc(100 * level * 1.5).
func XPRequiredForLevelUp(level int) int {
	return int(Tuning.XPBase * (float64(level) * Tuning.XPLevelFactor))
}

// ScaleFactor returns the deterministic multiplier applied to an anomaly base
// stat at the given level: 1 + level*growth/100, never below 1.
func ScaleFactor(level int, growth float64) float64 {
	f := 1 + float64(level)*growth/100
	if f < 1 || math.IsNaN(f) {
		return 1
	}
	return f
}

// ScaleStat scales base by ScaleFactor(level, growth), truncating and
// flooring the result at 1.
//
// Postcondition: result >= 1.
func ScaleStat(base, level int, growth float64) int {
	v := int(float64(base) * ScaleFactor(level, growth))
	if v < 1 {
		return 1
	}
	return v
}

// PotencyInput carries the values needed to size an anomaly's rewards.
type PotencyInput struct {
	Health       int
	Mana         int
	Strength     int
	Agility      int
	Intelligence int
}

// Potency computes the weighted reward-sizing scalar:
//
//	health*1.1 + mana*1.1 + strength*1.667 + (agility+intelligence+jitter)/divisor
//
// Precondition: divisor > 0; a non-positive divisor drops the last term.
func Potency(in PotencyInput, jitter, divisor int) float64 {
	p := float64(in.Health)*Tuning.PotencyHealth +
		float64(in.Mana)*Tuning.PotencyMana +
		float64(in.Strength)*Tuning.PotencyStrength
	if divisor > 0 {
		p += float64(in.Agility+in.Intelligence+jitter) / float64(divisor)
	}
	return p
}

// RollPotency computes Potency with jitter and divisor drawn from the
// Tuning ranges.
//
// Precondition: src must be non-nil.
func RollPotency(src dice.Source, in PotencyInput) float64 {
	jitter := dice.IntRange(src, Tuning.PotencyJitterMin, Tuning.PotencyJitterMax)
	divisor := dice.IntRange(src, Tuning.PotencyDivisorMin, Tuning.PotencyDivisorMax)
	return Potency(in, jitter, divisor)
}

// Rewards is the XP and gold granted for defeating an anomaly.
type Rewards struct {
	XP   int
	Gold int
}

// String renders the rewards for chat output.
func (r Rewards) String() string {
	return fmt.Sprintf("%d gold, %d XP", r.Gold, r.XP)
}

// RollRewards turns potency and level into XP and gold with small random
// multipliers. Both values are floored at 1.
//
// Precondition: src must be non-nil.
// Postcondition: result.XP >= 1 and result.Gold >= 1.
func RollRewards(src dice.Source, potency float64, level int) Rewards {
	if level < 1 {
		level = 1
	}
	xpScale := Tuning.XPRewardBase + float64(level)*Tuning.XPRewardPerLevel
	xp := int(potency * xpScale * dice.Uniform(src, Tuning.RewardJitterMin, Tuning.RewardJitterMax))
	gold := int(potency / Tuning.GoldDivisor * dice.Uniform(src, Tuning.GoldJitterMin, Tuning.GoldJitterMax))
	return Rewards{XP: atLeastOne(xp), Gold: atLeastOne(gold)}
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
