package character

import "fmt"

// Class identifies a playable class.
type Class string

const (
	Knight   Class = "knight"
	Mage     Class = "mage"
	Assassin Class = "assassin"
)

// ClassInfo describes a class and its starting stats.
type ClassInfo struct {
	Class        Class
	Name         string
	Emoji        string
	Description  string
	Health       int
	Strength     int
	Mana         int
	Agility      int
	Intelligence int
}

// Classes lists every playable class in menu order.
var Classes = []ClassInfo{
	{
		Class:        Knight,
		Name:         "Knight",
		Emoji:        "⚔️",
		Description:  "Faithful warriors who hold the front line for their people, sustained by the flame of the goddess Phoenix. Sturdy and hard hitting.",
		Health:       100,
		Strength:     20,
		Mana:         10,
		Agility:      5,
		Intelligence: 5,
	},
	{
		Class:        Mage,
		Name:         "Mage",
		Emoji:        "🪄",
		Description:  "Scholars who study the anomalies of the Sun and solve problems with knowledge rather than steel. Frail, but sharp and full of mana.",
		Health:       80,
		Strength:     5,
		Mana:         50,
		Agility:      8,
		Intelligence: 15,
	},
	{
		Class:        Assassin,
		Name:         "Assassin",
		Emoji:        "🗡️",
		Description:  "Independent hunters who end fights quickly. Hard to hit and quick to land critical blows.",
		Health:       60,
		Strength:     15,
		Mana:         15,
		Agility:      15,
		Intelligence: 10,
	},
}

// LookupClass returns the info for c.
func LookupClass(c Class) (ClassInfo, bool) {
	for _, info := range Classes {
		if info.Class == c {
			return info, true
		}
	}
	return ClassInfo{}, false
}

// ParseClass converts s into a Class.
func ParseClass(s string) (Class, error) {
	if _, ok := LookupClass(Class(s)); !ok {
		return "", fmt.Errorf("unknown class %q", s)
	}
	return Class(s), nil
}
