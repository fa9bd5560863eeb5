package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/allocator"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// CheckoutStore defines the database operations needed for resource
// checkout and checkin
type CheckoutStore interface {
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
}

// CheckoutResource books a resource for an event explicitly. The resource
// must be in available status and the window must not collide with any
// active booking.
func CheckoutResource(ctx context.Context, store CheckoutStore, logger *zap.Logger, resourceID, eventID string, window model.TimeWindow, now time.Time) (*model.BookingEntry, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}

	var entry *model.BookingEntry
	err := withContentionRetry(ctx, func() error {
		r, err := store.GetResource(ctx, resourceID)
		if err != nil {
			return fmt.Errorf("failed to load resource: %w", err)
		}
		if r.Availability != model.AvailabilityAvailable {
			return fmt.Errorf("resource %s has status %s: %w", r.ID, r.Availability, ErrNotAvailable)
		}
		entry, err = allocator.Book(r, eventID, window, now)
		if err != nil {
			if errors.Is(err, allocator.ErrOverlappingBooking) {
				return fmt.Errorf("resource %s: %w", r.ID, ErrConflictingBooking)
			}
			return err
		}
		return store.UpdateResource(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Resource checked out",
		zap.String("resource_id", resourceID),
		zap.String("event_id", eventID),
		zap.String("booking_id", entry.ID))
	return entry, nil
}

// CheckinResource completes the resource's active booking for the event,
// recording condition and any reported issues. A reported issue sends the
// resource to maintenance.
func CheckinResource(ctx context.Context, store CheckoutStore, logger *zap.Logger, resourceID, eventID, condition string, issues []string, now time.Time) (*model.Resource, error) {
	var result *model.Resource
	err := withContentionRetry(ctx, func() error {
		r, err := store.GetResource(ctx, resourceID)
		if err != nil {
			return fmt.Errorf("failed to load resource: %w", err)
		}
		if err := allocator.Checkin(r, eventID, condition, issues, now); err != nil {
			if errors.Is(err, allocator.ErrNoActiveBooking) {
				return fmt.Errorf("resource %s, event %s: %w", r.ID, eventID, ErrNoActiveBooking)
			}
			return err
		}
		if err := store.UpdateResource(ctx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Resource checked in",
		zap.String("resource_id", resourceID),
		zap.String("event_id", eventID),
		zap.String("condition", condition),
		zap.Int("issues", len(issues)))
	return result, nil
}
