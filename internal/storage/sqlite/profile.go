package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/changli/internal/core"
)

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context) (core.Profile, error) {
	var profile core.Profile
	var factsJSON string

	err := r.db.QueryRowContext(ctx,
		`SELECT about, job, facts FROM profile WHERE id = 1`).
		Scan(&profile.About, &profile.Job, &factsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}

	if factsJSON != "" && factsJSON != "null" {
		if err := json.Unmarshal([]byte(factsJSON), &profile.Facts); err != nil {
			return core.Profile{}, fmt.Errorf("failed to unmarshal profile facts: %w", err)
		}
	}
	return profile, nil
}

func (r *ProfileRepo) Put(ctx context.Context, profile core.Profile) error {
	factsJSON, err := json.Marshal(profile.Facts)
	if err != nil {
		return fmt.Errorf("failed to marshal profile facts: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profile (id, about, job, facts) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			about = excluded.about,
			job = excluded.job,
			facts = excluded.facts`,
		profile.About, profile.Job, string(factsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
