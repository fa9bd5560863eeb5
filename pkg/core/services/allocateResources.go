package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/allocator"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

// AllocateResourcesStore defines the database operations needed to allocate
// resources to an event
type AllocateResourcesStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
	ListResourcesByCategory(ctx context.Context, category string) ([]model.Resource, error)
}

// AllocateResources matches the requirement manifest against the available
// pool and books the top-scoring candidates for the event's window. Partial
// availability is a normal outcome reported through Result.Shortfall, never
// an error.
func AllocateResources(ctx context.Context, store AllocateResourcesStore, weights allocator.ScoringWeights, logger *zap.Logger, eventID string, requirements allocator.Requirements, now time.Time) (*allocator.Result, error) {
	if err := requirements.Validate(); err != nil {
		return nil, fmt.Errorf("invalid requirements: %w", err)
	}

	logger.Debug("Allocating resources",
		zap.String("event_id", eventID),
		zap.Int("categories", len(requirements)))

	ev, err := store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrUnknownEvent)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	result := &allocator.Result{
		EventID:   ev.ID,
		Granted:   make(map[string][]string),
		Shortfall: make(map[string]int),
	}

	for _, category := range requirements.Categories() {
		need := requirements[category]

		pool, err := store.ListResourcesByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s resources: %w", category, err)
		}
		ranked := allocator.RankCandidates(pool, ev.Window, ev.Location.Coordinates, now, weights)
		logger.Debug("Ranked candidates",
			zap.String("category", category),
			zap.Int("pool", len(pool)),
			zap.Int("eligible", len(ranked)),
			zap.Int("need", need))

		granted := make([]string, 0, need)
		for _, cand := range ranked {
			if len(granted) == need {
				break
			}
			err := bookResource(ctx, store, cand.Resource.ID, ev.ID, ev.Window, now)
			if errors.Is(err, allocator.ErrOverlappingBooking) {
				// lost a race for this candidate; move on to the next one
				logger.Debug("Candidate booked concurrently, skipping",
					zap.String("resource_id", cand.Resource.ID))
				continue
			}
			if err != nil {
				return nil, err
			}
			granted = append(granted, cand.Resource.ID)
		}

		if len(granted) > 0 {
			result.Granted[category] = granted
		}
		if shortfall := need - len(granted); shortfall > 0 {
			result.Shortfall[category] = shortfall
		}
	}

	if err := recordAllocations(ctx, store, ev.ID, result.Granted); err != nil {
		return nil, err
	}

	logger.Info("Allocation complete",
		zap.String("event_id", ev.ID),
		zap.Int("granted_categories", len(result.Granted)),
		zap.Int("shortfall_categories", len(result.Shortfall)))
	return result, nil
}

// bookResource books one resource for the event under its optimistic version,
// re-reading and re-checking eligibility on every retry
func bookResource(ctx context.Context, store AllocateResourcesStore, resourceID, eventID string, window model.TimeWindow, now time.Time) error {
	return withContentionRetry(ctx, func() error {
		r, err := store.GetResource(ctx, resourceID)
		if err != nil {
			return fmt.Errorf("failed to load resource %s: %w", resourceID, err)
		}
		if !allocator.Eligible(r, window) {
			return fmt.Errorf("resource %s: %w", resourceID, allocator.ErrOverlappingBooking)
		}
		if _, err := allocator.Book(r, eventID, window, now); err != nil {
			return err
		}
		return store.UpdateResource(ctx, r)
	})
}

// recordAllocations appends the granted resources to the event under its
// revision, retrying when a concurrent writer moved the event
func recordAllocations(ctx context.Context, store AllocateResourcesStore, eventID string, granted map[string][]string) error {
	if len(granted) == 0 {
		return nil
	}
	return withContentionRetry(ctx, func() error {
		ev, err := store.GetEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to reload event: %w", err)
		}
		for category, ids := range granted {
			ev.Allocations = append(ev.Allocations, model.ResourceAllocation{Category: category, ResourceIDs: ids})
		}
		return store.UpdateEvent(ctx, ev, ev.Revision)
	})
}

// ReleaseResourcesStore defines the database operations needed to release an
// event's bookings
type ReleaseResourcesStore interface {
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
	ListResourcesBookedForEvent(ctx context.Context, eventID string) ([]model.Resource, error)
}

// ReleaseResources closes every active booking held for the event: entries
// already started become completed, future ones cancelled, and each affected
// resource's availability is recomputed. Returns how many resources were
// touched.
func ReleaseResources(ctx context.Context, store ReleaseResourcesStore, logger *zap.Logger, eventID string, now time.Time) (int, error) {
	resources, err := store.ListResourcesBookedForEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to list booked resources: %w", err)
	}

	released := 0
	for _, res := range resources {
		resourceID := res.ID
		err := withContentionRetry(ctx, func() error {
			r, err := store.GetResource(ctx, resourceID)
			if err != nil {
				return fmt.Errorf("failed to load resource %s: %w", resourceID, err)
			}
			if allocator.Release(r, eventID, now) == 0 {
				return nil
			}
			return store.UpdateResource(ctx, r)
		})
		if err != nil {
			return released, err
		}
		released++
	}

	logger.Info("Released event bookings",
		zap.String("event_id", eventID),
		zap.Int("resources", released))
	return released, nil
}
