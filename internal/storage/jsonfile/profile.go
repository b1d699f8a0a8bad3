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

// ProfileStore persists the singleton profile as its own JSON file.
type ProfileStore struct {
	path string
	mu   sync.RWMutex
}

func NewProfileStore(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

// Get returns the stored profile, or a zero-value one on first read.
func (p *ProfileStore) Get(ctx context.Context) (core.Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Profile{}, nil
		}
		return core.Profile{}, fmt.Errorf("read profile file: %w", err)
	}

	var profile core.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("path", p.path).Msg("profile file corrupted, starting empty")
		return core.Profile{}, nil
	}
	return profile, nil
}

func (p *ProfileStore) Put(ctx context.Context, profile core.Profile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	return nil
}
