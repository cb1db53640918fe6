package events

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/productstore/pkg/logger"
)

func nopLogger() logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}

// failing returns fn that fails the first n calls, and a pointer to the call count.
func failing(n int) (func(context.Context) error, *int) {
	calls := 0
	return func(context.Context) error {
		calls++
		if calls <= n {
			return errors.New("transient")
		}
		return nil
	}, &calls
}

func TestRetryPolicy_Run(t *testing.T) {
	fast := RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

	tests := []struct {
		name      string
		policy    RetryPolicy
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", fast, 0, 1, false},
		{"succeeds on last attempt", fast, 2, 3, false},
		{"exhausted", fast, 5, 3, true},
		{"zero attempts means one", RetryPolicy{}, 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := failing(tt.failures)
			err := tt.policy.Run(context.Background(), fn, nopLogger())

			assert.Equal(t, tt.wantCalls, *calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "transient")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn, calls := failing(10)
	err := RetryPolicy{Attempts: 3, BaseDelay: time.Hour}.Run(ctx, fn, nopLogger())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, *calls)
}

func TestDefaultRetryPolicy(t *testing.T) {
	assert.Equal(t, 3, DefaultRetryPolicy.Attempts)
	assert.Equal(t, time.Second, DefaultRetryPolicy.BaseDelay)
}
