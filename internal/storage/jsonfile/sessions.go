// Package jsonfile is the default persisted store: the whole session list
// lives in one JSON file that every save rewrites in full. A RWMutex keeps
// single-writer discipline inside the process; crash-consistency across
// processes is the caller's concern.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/pkg/log"
)

type SessionStore struct {
	path string
	mu   sync.RWMutex
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) Get(ctx context.Context, id string) (core.Session, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return core.Session{}, err
	}
	for _, sess := range sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return core.Session{}, core.ErrSessionNotFound
}

// Put replaces the stored record for the session id, appending when the
// id is new.
func (s *SessionStore) Put(ctx context.Context, session core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.read(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, sess := range sessions {
		if sess.ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}

	return s.write(sessions)
}

func (s *SessionStore) List(ctx context.Context) ([]core.SessionSummary, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]core.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, core.SessionSummary{
			ID:          sess.ID,
			UserName:    sess.UserName,
			LastUpdated: sess.LastUpdated,
		})
	}
	return summaries, nil
}

func (s *SessionStore) load(ctx context.Context) ([]core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(ctx)
}

// read self-initializes on a missing file and recovers from a corrupted
// one by starting over with an empty list, matching first-run behavior.
func (s *SessionStore) read(ctx context.Context) ([]core.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
			return []core.Session{}, nil
		}
		return nil, fmt.Errorf("read sessions file: %w", err)
	}

	if len(data) == 0 {
		return []core.Session{}, nil
	}

	var sessions []core.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("path", s.path).Msg("sessions file corrupted, starting empty")
		return []core.Session{}, nil
	}
	return sessions, nil
}

func (s *SessionStore) write(sessions []core.Session) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write sessions file: %w", err)
	}
	return nil
}
