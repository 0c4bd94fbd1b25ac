package region

import "github.com/cory-johannsen/phoenix/internal/game/dice"

// Journey tracks where a character is and where they have been.
//
// Invariant: TotalTraveled >= 0; History is ordered oldest first.
type Journey struct {
	Current       Region   `json:"current"`
	History       []Region `json:"history"`
	TotalTraveled float64  `json:"total_traveled"`
}

// NewJourney starts a journey in a freshly named home city.
//
// Precondition: src must be non-nil.
// Postcondition: Current.Type == City; History is empty.
func NewJourney(src dice.Source) Journey {
	return Journey{Current: Generate(src, City, 0)}
}

// InCity reports whether the traveller has not yet left the home city.
func (j Journey) InCity() bool { return j.Current.Type == City }

// Travel adds km to the distance traveled. Negative distances are ignored.
func (j *Journey) Travel(km float64) {
	if km > 0 {
		j.TotalTraveled += km
	}
}

// MoveTo records the current region in the history and makes r current.
func (j *Journey) MoveTo(r Region) {
	j.History = append(j.History, j.Current)
	j.Current = r
}

// NextRegion generates the region the traveller wanders into next. Its type
// is weighted by rarity, so it is never a City; it starts at the current
// total distance.
//
// Precondition: src must be non-nil.
func NextRegion(j Journey, src dice.Source) Region {
	return Generate(src, RandomType(src), j.TotalTraveled)
}

// ShouldWander reports whether, after travelling, the character has gone far
// enough past the start of the current region to reach a new one.
//
// Precondition: src must be non-nil.
func (j Journey) ShouldWander(src dice.Source) bool {
	if len(j.History) == 0 {
		return true
	}
	return j.TotalTraveled > j.Current.Distance+dice.Uniform(src, 0.8, 1.2)
}

// Clone returns a deep copy of the journey.
func (j Journey) Clone() Journey {
	c := j
	c.History = append([]Region(nil), j.History...)
	return c
}
