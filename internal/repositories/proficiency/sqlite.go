package proficiency

import (
	"context"
	"database/sql"
	"time"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/clock"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS proficiency_xp (
	player_id      TEXT NOT NULL,
	proficiency_id TEXT NOT NULL,
	current_xp     REAL NOT NULL,
	updated_at     INTEGER NOT NULL,
	PRIMARY KEY (player_id, proficiency_id)
)`

// SQLiteConfig holds the configuration for the SQLite repository
type SQLiteConfig struct {
	// DSN is passed to the modernc sqlite driver, e.g. "file:rewards.db" or ":memory:"
	DSN   string
	Clock clock.Clock
}

// Validate ensures all required settings are provided
func (c *SQLiteConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.DSN == "" {
		vb.RequiredField("DSN")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// SQLiteRepository stores proficiency XP in a SQLite database
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteRepository opens the database and creates the schema
func NewSQLiteRepository(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite database")
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create proficiency schema")
	}

	return &SQLiteRepository{db: db, clock: cfg.Clock}, nil
}

var _ Repository = (*SQLiteRepository)(nil)

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get returns the stored state for one proficiency
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.ProficiencyID == "" {
		return nil, errors.InvalidArgument(errProficiencyIDEmpty)
	}

	var (
		xp      float64
		updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT current_xp, updated_at FROM proficiency_xp WHERE player_id = ? AND proficiency_id = ?`,
		input.PlayerID, input.ProficiencyID,
	).Scan(&xp, &updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("proficiency %s not granted to player %s",
				input.ProficiencyID, input.PlayerID)
		}
		return nil, errors.Wrapf(err, "failed to get proficiency %s", input.ProficiencyID)
	}

	return &GetOutput{State: &entities.ProficiencyState{
		PlayerID:      input.PlayerID,
		ProficiencyID: input.ProficiencyID,
		CurrentXP:     xp,
		UpdatedAt:     time.Unix(0, updated).UTC(),
	}}, nil
}

// Set upserts the stored XP
func (r *SQLiteRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.ProficiencyID == "" {
		return nil, errors.InvalidArgument(errProficiencyIDEmpty)
	}

	now := r.clock.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO proficiency_xp (player_id, proficiency_id, current_xp, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (player_id, proficiency_id)
		 DO UPDATE SET current_xp = excluded.current_xp, updated_at = excluded.updated_at`,
		input.PlayerID, input.ProficiencyID, input.XP, now.UnixNano(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store proficiency %s", input.ProficiencyID)
	}

	return &SetOutput{State: &entities.ProficiencyState{
		PlayerID:      input.PlayerID,
		ProficiencyID: input.ProficiencyID,
		CurrentXP:     input.XP,
		UpdatedAt:     now,
	}}, nil
}

// List returns every stored proficiency for the player
func (r *SQLiteRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT proficiency_id, current_xp, updated_at FROM proficiency_xp
		 WHERE player_id = ? ORDER BY proficiency_id`,
		input.PlayerID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list proficiencies for player %s", input.PlayerID)
	}
	defer func() { _ = rows.Close() }()

	states := []*entities.ProficiencyState{}
	for rows.Next() {
		var (
			state   = &entities.ProficiencyState{PlayerID: input.PlayerID}
			updated int64
		)
		if err := rows.Scan(&state.ProficiencyID, &state.CurrentXP, &updated); err != nil {
			return nil, errors.Wrapf(err, "failed to scan proficiency row")
		}
		state.UpdatedAt = time.Unix(0, updated).UTC()
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate proficiency rows")
	}

	return &ListOutput{States: states}, nil
}
