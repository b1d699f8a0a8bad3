package core

import "context"

// SessionRepository is the persisted store for sessions. A Put fully
// replaces the record for the session id.
type SessionRepository interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, session Session) error
	List(ctx context.Context) ([]SessionSummary, error)
}

// ProfileRepository persists the singleton user profile. Get returns a
// zero-value profile when none was ever written.
type ProfileRepository interface {
	Get(ctx context.Context) (Profile, error)
	Put(ctx context.Context, profile Profile) error
}
