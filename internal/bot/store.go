package bot

import (
	"context"
	"time"

	"github.com/cory-johannsen/phoenix/internal/game/character"
)

// CharacterStore persists character records.
type CharacterStore interface {
	// Create inserts a new record.
	Create(ctx context.Context, r *character.Record) error
	// Get returns the record of userID.
	Get(ctx context.Context, userID string) (*character.Record, error)
	// Exists reports whether userID has a record.
	Exists(ctx context.Context, userID string) (bool, error)
	// Save writes r and its bestiary atomically.
	Save(ctx context.Context, r *character.Record) error
}

// CooldownKind names a rate-limited command.
type CooldownKind string

// CooldownRest limits how often a character may rest.
const CooldownRest CooldownKind = "rest"

// CooldownStore persists per-user command cooldowns.
type CooldownStore interface {
	// Get returns when the cooldown of kind expires for userID.
	//
	// Postcondition: ok is false when no cooldown was ever set.
	Get(ctx context.Context, userID string, kind CooldownKind) (expiresAt time.Time, ok bool, err error)
	// Set records a cooldown expiring at expiresAt.
	Set(ctx context.Context, userID string, kind CooldownKind, expiresAt time.Time) error
	// DeleteAll clears every cooldown.
	DeleteAll(ctx context.Context) error
}
