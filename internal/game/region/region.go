// Package region models the overworld: region types, their rarity, procedurally
// named regions, and the journey a character makes through them.
package region

import (
	"fmt"

	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/formula"
)

// Type identifies the kind of terrain a region has. Anomaly archetypes list
// the types they can spawn in.
type Type string

const (
	Forest    Type = "forest"
	City      Type = "city"
	Swamp     Type = "swamp"
	Grassland Type = "grassland"
)

// All lists every region type in a stable order.
var All = []Type{City, Swamp, Grassland, Forest}

// ParseType converts s into a Type.
//
// Postcondition: Returns an error iff s names no known type.
func ParseType(s string) (Type, error) {
	for _, t := range All {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown region type %q", s)
}

// Name returns the display name of the type.
func (t Type) Name() string {
	switch t {
	case City:
		return "City"
	case Forest:
		return "Forest"
	case Swamp:
		return "Swamp"
	case Grassland:
		return "Grassland"
	}
	return "Unknown"
}

// Emoji returns the chat emoji shown next to the type.
func (t Type) Emoji() string {
	switch t {
	case City:
		return "🏙️"
	case Forest:
		return "🌲"
	case Swamp:
		return "🐀"
	case Grassland:
		return "🏞️"
	}
	return "❔"
}

// Rarity is the relative weight of the type when a traveller wanders into a
// new region. Cities are never wandered into.
func (t Type) Rarity() formula.Probability {
	switch t {
	case City:
		return formula.NewProbability(0)
	case Swamp:
		return formula.NewProbability(30)
	}
	return formula.NewProbability(50)
}

// Region is a named stretch of the overworld.
type Region struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	// Distance is the total journey distance, in km, at which the region was entered.
	Distance float64 `json:"distance"`
}

// Emoji returns the emoji of the region's type.
func (r Region) Emoji() string { return r.Type.Emoji() }

// Generate creates a freshly named region of type t entered at distance.
//
// Precondition: src must be non-nil.
func Generate(src dice.Source, t Type, distance float64) Region {
	return Region{Name: GenerateName(src, t), Type: t, Distance: distance}
}

// RandomType draws a region type weighted by rarity. Types with zero rarity
// are never returned.
//
// Precondition: src must be non-nil.
// Postcondition: Rarity() of the result is > 0.
func RandomType(src dice.Source) Type {
	total := 0
	for _, t := range All {
		total += t.Rarity().Percent()
	}
	roll := src.Intn(total)
	for _, t := range All {
		w := t.Rarity().Percent()
		if roll < w {
			return t
		}
		roll -= w
	}
	return Forest
}
