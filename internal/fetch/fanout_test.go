package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model_gateway/internal/models"
)

func TestFanOut_IsolatesFailures(t *testing.T) {
	inputs := make([]int, 10)
	for i := range inputs {
		inputs[i] = i
	}
	failing := map[int]bool{2: true, 5: true, 9: true}

	outcomes := FanOut(context.Background(), 0, inputs, func(_ context.Context, i int) (string, error) {
		if failing[i] {
			return "", fmt.Errorf("provider %d down", i)
		}
		return fmt.Sprintf("models-%d", i), nil
	})

	require.Len(t, outcomes, 10)
	succeeded := 0
	for i, o := range outcomes {
		if failing[i] {
			assert.Error(t, o.Err)
			continue
		}
		require.NoError(t, o.Err)
		assert.Equal(t, fmt.Sprintf("models-%d", i), o.Value, "outcome %d attributed to the wrong input", i)
		succeeded++
	}
	assert.Equal(t, 7, succeeded)
}

func TestFanOut_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	inputs := make([]int, 25)

	FanOut(context.Background(), 4, inputs, func(context.Context, int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestFanOut_RecoversPanics(t *testing.T) {
	outcomes := FanOut(context.Background(), 2, []string{"ok", "boom"}, func(_ context.Context, s string) (string, error) {
		if s == "boom" {
			panic("nil map")
		}
		return s, nil
	})

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "ok", outcomes[0].Value)
	assert.True(t, models.IsKind(outcomes[1].Err, models.ErrorKindUnknown))
}

func TestFanOut_PassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := FanOut(ctx, 1, []int{1, 2}, func(ctx context.Context, _ int) (int, error) {
		return 0, ctx.Err()
	})
	for _, o := range outcomes {
		assert.True(t, errors.Is(o.Err, context.Canceled))
	}
}
