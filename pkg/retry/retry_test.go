package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhausted(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return errFlaky
	}, nil)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
}

func TestDoSingleAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{}, func(context.Context) error {
		calls++
		return errFlaky
	}, nil)
	assert.Equal(t, errFlaky, err)
	assert.Equal(t, 1, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 5}, func(context.Context) error {
		calls++
		return permanent
	}, func(err error) bool { return !errors.Is(err, permanent) })
	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 5, Delay: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return errFlaky
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []time.Duration
	}{
		{"fixed", Policy{Attempts: 3, Delay: 10 * time.Millisecond}, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}},
		{"exponential", Policy{Attempts: 4, Delay: time.Second, Multiplier: 2}, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}},
		{"capped", Policy{Attempts: 4, Delay: time.Second, Multiplier: 3, MaxDelay: 5 * time.Second}, []time.Duration{time.Second, 3 * time.Second, 5 * time.Second}},
		{"single", Policy{Attempts: 1, Delay: time.Second}, []time.Duration{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Sequence())
		})
	}
}

func TestJitterBounds(t *testing.T) {
	p := Policy{Jitter: 0.25}
	for range 100 {
		d := p.jitter(time.Second)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1250*time.Millisecond)
	}
	assert.Equal(t, time.Second, Policy{}.jitter(time.Second))
}

func TestValue(t *testing.T) {
	calls := 0
	v, err := Value(context.Background(), DefaultPolicy(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errFlaky
		}
		return 42, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
