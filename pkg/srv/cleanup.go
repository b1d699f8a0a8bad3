package srv

import "context"

// Cleanup adapts a plain close function into a Service so resources like
// database handles participate in ordered shutdown without their own
// lifecycle type.
type Cleanup func() error

func (c Cleanup) Start(ctx context.Context) error { return nil }

func (c Cleanup) Shutdown(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c()
}

func NewCleanup(fn func() error) Service {
	return Cleanup(fn)
}
