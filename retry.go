package qudit

import (
	"context"
	"errors"
	"fmt"
)

/*
RetryPolicy repeats probabilistic work such as order finding, where one run
may measure an unhelpful outcome and a fresh run may not.
*/
type RetryPolicy struct {
	MaxAttempts int
	// Filter reports whether err is worth another attempt. Nil retries every error.
	Filter func(error) bool
}

// RetryOn builds a policy that retries only errors matching target.
func RetryOn(attempts int, target error) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		Filter: func(err error) bool {
			return errors.Is(err, target)
		},
	}
}

/*
Do calls fn with attempt numbers starting at 0 until it succeeds, returns an
error the filter rejects, the attempts run out, or ctx is done.
*/
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	var err error

	for attempt := 0; attempt < max(p.MaxAttempts, 1); attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = fn(attempt); err == nil {
			return nil
		}

		if p.Filter != nil && !p.Filter(err) {
			return err
		}
	}

	return fmt.Errorf("after %d attempts: %w", max(p.MaxAttempts, 1), err)
}
