package formula

// TuningTable gathers every balance constant used by the formulas.
type TuningTable struct {
	// Dodge chance: trunc((def+1)/(atk+1) * DodgeScale * DodgeFactor).
	DodgeScale  float64
	DodgeFactor float64
	// Critical chance: trunc((atk+1)/(def+1) * CriticalScale * CriticalFactor).
	CriticalScale  float64
	CriticalFactor float64

	// Damage multiplier range, and the critical bonus added on top.
	DamageMin        float64
	DamageMax        float64
	CriticalBonusMin float64
	CriticalBonusMax float64

	// Level threshold: trunc(XPBase * level * XPLevelFactor).
	XPBase        float64
	XPLevelFactor float64

	// Effective anomaly level = trunc(playerLevel * U[LevelJitterMin, LevelJitterMax]).
	LevelJitterMin float64
	LevelJitterMax float64

	// Per-stat growth (percent of base per level) for anomaly scaling.
	GrowthHealth       float64
	GrowthMana         float64
	GrowthStrength     float64
	GrowthAgility      float64
	GrowthIntelligence float64

	// Potency weights and jitter/divisor ranges.
	PotencyHealth     float64
	PotencyMana       float64
	PotencyStrength   float64
	PotencyJitterMin  int
	PotencyJitterMax  int
	PotencyDivisorMin int
	PotencyDivisorMax int

	// XP reward = potency * (XPRewardBase + level*XPRewardPerLevel) * U[RewardJitterMin, RewardJitterMax].
	XPRewardBase     float64
	XPRewardPerLevel float64
	RewardJitterMin  float64
	RewardJitterMax  float64
	// Gold reward = potency / GoldDivisor * U[GoldJitterMin, GoldJitterMax].
	GoldDivisor   float64
	GoldJitterMin float64
	GoldJitterMax float64

	// Variant roll chances (fraction) and their stat multipliers.
	GiantChance   float64
	GhostChance   float64
	GiantHealth   float64
	GiantStrength float64
	GiantAgility  float64
	GhostHealth   float64
	GhostAgility  float64
}

// Tuning is the live balance table. It is read-only after process start.
var Tuning = TuningTable{
	DodgeScale:     1.5,
	DodgeFactor:    5.0,
	CriticalScale:  1.4,
	CriticalFactor: 5.5,

	DamageMin:        0.8,
	DamageMax:        1.2,
	CriticalBonusMin: 0.75,
	CriticalBonusMax: 1.2,

	XPBase:        100,
	XPLevelFactor: 1.5,

	LevelJitterMin: 0.8,
	LevelJitterMax: 1.3,

	GrowthHealth:       10,
	GrowthMana:         5,
	GrowthStrength:     5,
	GrowthAgility:      8,
	GrowthIntelligence: 8,

	PotencyHealth:     1.1,
	PotencyMana:       1.1,
	PotencyStrength:   1.667,
	PotencyJitterMin:  0,
	PotencyJitterMax:  5,
	PotencyDivisorMin: 2,
	PotencyDivisorMax: 4,

	XPRewardBase:     0.5,
	XPRewardPerLevel: 0.25,
	RewardJitterMin:  0.85,
	RewardJitterMax:  1.15,
	GoldDivisor:      15,
	GoldJitterMin:    0.8,
	GoldJitterMax:    1.2,

	GiantChance:   0.05,
	GhostChance:   0.05,
	GiantHealth:   1.5,
	GiantStrength: 1.2,
	GiantAgility:  0.8,
	GhostHealth:   0.8,
	GhostAgility:  1.5,
}
