package service

import (
	"context"
	"fmt"

	"bistro-backend/order-svc/internal/domain"
)

const maxTransitionAttempts = 3

type lifecycleStatus[S any] interface {
	~string
	Valid() bool
	CanTransitionTo(next S) bool
}

// advanceStatus moves an entity to next with a compare-and-set, re-reading the
// current status when another writer changed it in between. It returns the
// status the entity had before the change.
func advanceStatus[S lifecycleStatus[S]](
	ctx context.Context,
	next S,
	current func(ctx context.Context) (S, error),
	swap func(ctx context.Context, from, to S) (bool, error),
) (S, error) {
	var zero S
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		from, err := current(ctx)
		if err != nil {
			return zero, err
		}
		if !next.Valid() {
			return zero, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, string(next))
		}
		if !from.CanTransitionTo(next) {
			return zero, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, string(from), string(next))
		}

		ok, err := swap(ctx, from, next)
		if err != nil {
			return zero, err
		}
		if ok {
			return from, nil
		}
	}
	return zero, domain.ErrConcurrentUpdate
}
