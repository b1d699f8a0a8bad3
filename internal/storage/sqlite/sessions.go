package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/changli/internal/core"
)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Get(ctx context.Context, id string) (core.Session, error) {
	query := `SELECT id, user_name, ai_name, model, custom_prompt, memory_summary, memory_facts, last_updated
	          FROM sessions WHERE id = ?`

	var sess core.Session
	var factsJSON string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID, &sess.UserName, &sess.AIName, &sess.Model,
		&sess.CustomPrompt, &sess.MemorySummary, &factsJSON, &sess.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, core.ErrSessionNotFound
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	if factsJSON != "" && factsJSON != "null" {
		if err := json.Unmarshal([]byte(factsJSON), &sess.MemoryFacts); err != nil {
			return core.Session{}, fmt.Errorf("failed to unmarshal memory facts: %w", err)
		}
	}

	turns, err := r.getTurns(ctx, id)
	if err != nil {
		return core.Session{}, err
	}
	sess.History = turns

	return sess, nil
}

func (r *SessionRepo) getTurns(ctx context.Context, sessionID string) ([]core.Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_input, reply FROM turns WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		if err := rows.Scan(&t.User, &t.Reply); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Put fully replaces the stored record for the session id.
func (r *SessionRepo) Put(ctx context.Context, sess core.Session) error {
	factsJSON, err := json.Marshal(sess.MemoryFacts)
	if err != nil {
		return fmt.Errorf("failed to marshal memory facts: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, user_name, ai_name, model, custom_prompt, memory_summary, memory_facts, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_name = excluded.user_name,
			ai_name = excluded.ai_name,
			model = excluded.model,
			custom_prompt = excluded.custom_prompt,
			memory_summary = excluded.memory_summary,
			memory_facts = excluded.memory_facts,
			last_updated = excluded.last_updated`,
		sess.ID, sess.UserName, sess.AIName, sess.Model,
		sess.CustomPrompt, sess.MemorySummary, string(factsJSON), sess.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	for _, t := range sess.History {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (session_id, user_input, reply) VALUES (?, ?, ?)`,
			sess.ID, t.User, t.Reply); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SessionRepo) List(ctx context.Context) ([]core.SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_name, last_updated FROM sessions ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	summaries := make([]core.SessionSummary, 0)
	for rows.Next() {
		var s core.SessionSummary
		if err := rows.Scan(&s.ID, &s.UserName, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
