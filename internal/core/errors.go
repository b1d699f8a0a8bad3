package core

import "errors"

var (
	// ErrSessionNotFound rejects requests against an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage rejects a new-session turn with no user text.
	ErrEmptyMessage = errors.New("message is empty")
)
