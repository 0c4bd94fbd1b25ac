package character

import (
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/formula"
)

// UpgradeKind is an attribute that an attribute point can be spent on.
type UpgradeKind int

const (
	UpgradeHealth UpgradeKind = iota
	UpgradeMana
	UpgradeStrength
	UpgradeAgility
	UpgradeIntelligence
)

// AllUpgrades lists every UpgradeKind.
var AllUpgrades = []UpgradeKind{UpgradeHealth, UpgradeMana, UpgradeStrength, UpgradeAgility, UpgradeIntelligence}

// BaseLevelUpPoints is the number of attribute points granted by every level-up.
const BaseLevelUpPoints = 2

func (k UpgradeKind) String() string {
	switch k {
	case UpgradeHealth:
		return "health"
	case UpgradeMana:
		return "mana"
	case UpgradeStrength:
		return "strength"
	case UpgradeAgility:
		return "agility"
	case UpgradeIntelligence:
		return "intelligence"
	}
	return "unknown"
}

// ApplyUpgrade raises the attribute named by kind by amount. Health and mana
// grow both their max and current value.
func ApplyUpgrade(r *Record, kind UpgradeKind, amount int) {
	switch kind {
	case UpgradeHealth:
		r.Health.AddMaxValue(amount)
	case UpgradeMana:
		r.Mana.AddMaxValue(amount)
	case UpgradeStrength:
		r.Strength += amount
	case UpgradeAgility:
		r.Agility += amount
	case UpgradeIntelligence:
		r.Intelligence += amount
	}
}

// LevelUpResult describes what a LevelUp call changed.
type LevelUpResult struct {
	From     int
	To       int
	Points   int
	Upgrades map[UpgradeKind]int
}

// Leveled reports whether at least one level was gained.
func (l LevelUpResult) Leveled() bool { return l.To > l.From }

// LevelUp spends accumulated XP on as many levels as it covers. Each call
// that gains a level grants BaseLevelUpPoints plus, per level gained, a roll
// in [max(1, level/3), max(2, level/2)] using the starting level. Points are
// spent one at a time on uniformly chosen upgrades.
//
// Precondition: src must be non-nil.
// Postcondition: XP < formula.XPRequiredForLevelUp(Level); result.Leveled()
// is false and nothing changes when XP was already below the threshold.
func (r *Record) LevelUp(src dice.Source) LevelUpResult {
	res := LevelUpResult{From: r.Level, To: r.Level}
	if r.XP < formula.XPRequiredForLevelUp(r.Level) {
		return res
	}

	lower := max(1, r.Level/3)
	upper := max(2, r.Level/2)
	points := BaseLevelUpPoints
	for {
		need := formula.XPRequiredForLevelUp(r.Level)
		if need <= 0 || r.XP < need {
			break
		}
		r.XP -= need
		r.Level++
		points += dice.IntRange(src, lower, upper)
	}

	res.To = r.Level
	res.Points = points
	res.Upgrades = make(map[UpgradeKind]int)
	for ; points > 0; points-- {
		kind := AllUpgrades[dice.Pick(src, len(AllUpgrades))]
		ApplyUpgrade(r, kind, 1)
		res.Upgrades[kind]++
	}
	return res
}
