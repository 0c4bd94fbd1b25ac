// Package character defines the persisted player character and the pure rules
// that change it outside of battle: creation, rewards, leveling, resting and
// the bestiary.
package character

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/region"
	"github.com/cory-johannsen/phoenix/internal/game/stat"
)

const (
	// StartingGold is the gold every new character begins with.
	StartingGold = 10
	// MinAdventureHealth is the health a character needs to set out on an adventure.
	MinAdventureHealth = 15
	// RestThreshold is the health fraction above which resting is refused.
	RestThreshold = 0.8
)

// BestiaryEntry counts a character's encounters with one anomaly type.
type BestiaryEntry struct {
	Anomaly anomaly.Type `json:"anomaly"`
	Wins    int          `json:"wins"`
	Losses  int          `json:"losses"`
}

// Record is a player character's persistent state.
//
// ID, CreatedAt and UpdatedAt are owned by the persistence layer.
type Record struct {
	ID     uuid.UUID
	UserID string
	Class  Class

	Gold         int
	Health       stat.Stat
	Mana         stat.Stat
	Strength     int
	Agility      int
	Intelligence int
	XP           int
	Level        int

	Journey  region.Journey
	Bestiary []BestiaryEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord creates a level 1 character of class for the chat user userID,
// starting in a freshly named home city.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a Record whose stats equal the class base stats, or
// an error if userID is empty or class is unknown.
func NewRecord(userID string, class Class, src dice.Source) (*Record, error) {
	if userID == "" {
		return nil, errors.New("user id must not be empty")
	}
	info, ok := LookupClass(class)
	if !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}
	return &Record{
		ID:           uuid.New(),
		UserID:       userID,
		Class:        class,
		Gold:         StartingGold,
		Health:       stat.New(info.Health),
		Mana:         stat.New(info.Mana),
		Strength:     info.Strength,
		Agility:      info.Agility,
		Intelligence: info.Intelligence,
		Level:        1,
		Journey:      region.NewJourney(src),
	}, nil
}

// AddGold adds amount to the character's gold.
func (r *Record) AddGold(amount int) { r.Gold += amount }

// RemoveGold subtracts amount, floored at zero.
func (r *Record) RemoveGold(amount int) {
	r.Gold -= amount
	if r.Gold < 0 {
		r.Gold = 0
	}
}

// AddXP adds amount to the character's experience. Leveling is applied by LevelUp.
func (r *Record) AddXP(amount int) { r.XP += amount }

// CanAdventure reports whether the character has enough health to fight.
func (r *Record) CanAdventure() bool { return r.Health.Value >= MinAdventureHealth }

// NeedsRest reports whether health is at or below RestThreshold of its max.
func (r *Record) NeedsRest() bool {
	return float64(r.Health.Value) <= float64(r.Health.Max)*RestThreshold
}

// Rest restores health and mana to their max.
func (r *Record) Rest() {
	r.Health.Restore()
	r.Mana.Restore()
}

// ApplyVitals writes a battle's final health and mana back onto the record.
//
// Postcondition: values are clamped to the record's max pools.
func (r *Record) ApplyVitals(health, mana int) {
	r.Health.SetValue(health)
	r.Mana.SetValue(mana)
}

// RecordEncounter increments the win or loss count for anomaly type t,
// creating the bestiary entry on first encounter.
func (r *Record) RecordEncounter(t anomaly.Type, won bool) {
	for i := range r.Bestiary {
		if r.Bestiary[i].Anomaly == t {
			if won {
				r.Bestiary[i].Wins++
			} else {
				r.Bestiary[i].Losses++
			}
			return
		}
	}
	e := BestiaryEntry{Anomaly: t}
	if won {
		e.Wins = 1
	} else {
		e.Losses = 1
	}
	r.Bestiary = append(r.Bestiary, e)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Journey = r.Journey.Clone()
	c.Bestiary = append([]BestiaryEntry(nil), r.Bestiary...)
	return &c
}
