package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"model_gateway/internal/models"
)

// DefaultConcurrency bounds multi-provider fan-out when no limit is given.
const DefaultConcurrency = 10

// Outcome is the per-input result of FanOut.
type Outcome[T any] struct {
	Value T
	Err   error
}

// FanOut calls fn for every input with at most limit calls in flight and
// returns the outcomes in input order. A failure or panic in one call never
// cancels or hides the others.
func FanOut[In, Out any](ctx context.Context, limit int, inputs []In, fn func(context.Context, In) (Out, error)) []Outcome[Out] {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	outcomes := make([]Outcome[Out], len(inputs))
	var g errgroup.Group
	g.SetLimit(limit)

	for i, in := range inputs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = Outcome[Out]{Err: models.NewUnknownError("panic during fan-out", fmt.Errorf("%v", r))}
				}
			}()
			v, err := fn(ctx, in)
			outcomes[i] = Outcome[Out]{Value: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
