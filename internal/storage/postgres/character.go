package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/phoenix/internal/bot"
	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterExists is returned when creating a second character for a user.
var ErrCharacterExists = errors.New("character already exists")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

var _ bot.CharacterStore = (*CharacterRepository)(nil)

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character with its bestiary.
//
// Precondition: r.ID and r.UserID must be set.
// Postcondition: r.CreatedAt and r.UpdatedAt are set, or ErrCharacterExists is
// returned when r.UserID already has a character.
func (r *CharacterRepository) Create(ctx context.Context, rec *character.Record) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO characters
				(id, user_id, class, gold, health, health_max, mana, mana_max,
				 strength, agility, intelligence, xp, level, journey)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			RETURNING created_at, updated_at`,
			rec.ID, rec.UserID, string(rec.Class), rec.Gold,
			rec.Health.Value, rec.Health.Max, rec.Mana.Value, rec.Mana.Max,
			rec.Strength, rec.Agility, rec.Intelligence, rec.XP, rec.Level, rec.Journey,
		).Scan(&rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			if isDuplicateKeyError(err) {
				return ErrCharacterExists
			}
			return fmt.Errorf("inserting character: %w", err)
		}
		return upsertBestiary(ctx, tx, rec)
	})
}

// Get retrieves the character of a chat user, bestiary included in
// first-encounter order.
//
// Postcondition: Returns the Record or ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, userID string) (*character.Record, error) {
	var rec character.Record
	var class string
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, class, gold, health, health_max, mana, mana_max,
		       strength, agility, intelligence, xp, level, journey, created_at, updated_at
		FROM characters WHERE user_id = $1`,
		userID,
	).Scan(
		&rec.ID, &rec.UserID, &class, &rec.Gold,
		&rec.Health.Value, &rec.Health.Max, &rec.Mana.Value, &rec.Mana.Max,
		&rec.Strength, &rec.Agility, &rec.Intelligence, &rec.XP, &rec.Level,
		&rec.Journey, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	rec.Class = character.Class(class)

	rows, err := r.db.Query(ctx, `
		SELECT anomaly, wins, losses FROM bestiary
		WHERE character_id = $1 ORDER BY position ASC`,
		rec.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying bestiary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e character.BestiaryEntry
		var t string
		if err := rows.Scan(&t, &e.Wins, &e.Losses); err != nil {
			return nil, fmt.Errorf("scanning bestiary row: %w", err)
		}
		e.Anomaly = anomaly.Type(t)
		rec.Bestiary = append(rec.Bestiary, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading bestiary: %w", err)
	}
	return &rec, nil
}

// Exists reports whether userID has a character.
func (r *CharacterRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM characters WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking character: %w", err)
	}
	return exists, nil
}

// Save writes every mutable field of rec and its bestiary in one transaction.
//
// Precondition: rec.ID must reference an existing character.
// Postcondition: rec.UpdatedAt is refreshed, or ErrCharacterNotFound is
// returned and nothing is written.
func (r *CharacterRepository) Save(ctx context.Context, rec *character.Record) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE characters SET
				class = $2, gold = $3, health = $4, health_max = $5, mana = $6, mana_max = $7,
				strength = $8, agility = $9, intelligence = $10, xp = $11, level = $12,
				journey = $13, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			rec.ID, string(rec.Class), rec.Gold,
			rec.Health.Value, rec.Health.Max, rec.Mana.Value, rec.Mana.Max,
			rec.Strength, rec.Agility, rec.Intelligence, rec.XP, rec.Level, rec.Journey,
		).Scan(&rec.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCharacterNotFound
			}
			return fmt.Errorf("saving character: %w", err)
		}
		return upsertBestiary(ctx, tx, rec)
	})
}

func upsertBestiary(ctx context.Context, tx pgx.Tx, rec *character.Record) error {
	if len(rec.Bestiary) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, e := range rec.Bestiary {
		batch.Queue(`
			INSERT INTO bestiary (character_id, anomaly, position, wins, losses)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (character_id, anomaly)
			DO UPDATE SET position = EXCLUDED.position, wins = EXCLUDED.wins, losses = EXCLUDED.losses`,
			rec.ID, string(e.Anomaly), i, e.Wins, e.Losses,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving bestiary: %w", err)
	}
	return nil
}
