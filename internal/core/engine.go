package core

import "context"

// Engine is the generation engine consumed by the core. Any failure
// (unreachable, timeout, empty output) is folded into a degraded reply by
// the caller, never surfaced to the end user as an error.
type Engine interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ModelLister is implemented by engines that can enumerate their models.
type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}
