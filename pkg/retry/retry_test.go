package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:    3,
		BackoffFactor: 2.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		Jitter:        time.Millisecond,
	}
}

func TestRetrier_SucceedsFirstTry(t *testing.T) {
	r := NewRetrier(fastConfig())

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrier_RecoversAfterFailures(t *testing.T) {
	r := NewRetrier(fastConfig())

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetrier_ExhaustsRetries(t *testing.T) {
	r := NewRetrier(fastConfig())

	wantErr := errors.New("down")
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 4, calls) // initial attempt + MaxRetries
}

func TestRetrier_StopsOnContextCancel(t *testing.T) {
	r := NewRetrier(fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	err := r.Do(ctx, func() error {
		cancel()
		return errors.New("transient")
	})

	require.ErrorIs(t, err, context.Canceled)
}
