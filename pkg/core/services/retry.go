package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

// maxContentionRetries bounds how often a version-conflicted write is redone
// before the operation surfaces ErrContended
const maxContentionRetries = 3

// withContentionRetry runs op, retrying with backoff whenever it fails on a
// stale optimistic version. op must redo its read on every attempt. Any other
// error aborts immediately.
func withContentionRetry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond

	err := backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, db.ErrVersionConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, maxContentionRetries), ctx))

	if errors.Is(err, db.ErrVersionConflict) {
		return fmt.Errorf("%w: %v", ErrContended, err)
	}
	return err
}
