package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// RequestLifecycleStore defines the database operations needed to carry a
// coverage request through its review lifecycle
type RequestLifecycleStore interface {
	GetCoverageRequest(ctx context.Context, id string) (*model.CoverageRequest, error)
	InsertCoverageRequest(ctx context.Context, req *model.CoverageRequest) error
	UpdateCoverageRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
}

// CreateRequestParams are the inputs to CreateRequest
type CreateRequestParams struct {
	Title       string
	Category    string
	Priority    model.Priority
	Window      model.TimeWindow
	Location    model.Location
	RequesterID string
	Department  string
	SLADeadline *time.Time
}

// CreateRequest captures a new coverage request in draft status
func CreateRequest(ctx context.Context, store RequestLifecycleStore, logger *zap.Logger, p CreateRequestParams, now time.Time) (*model.CoverageRequest, error) {
	if err := p.Window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}
	if p.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	req := &model.CoverageRequest{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Category:    p.Category,
		Priority:    p.Priority,
		Window:      p.Window,
		Location:    p.Location,
		Status:      model.RequestDraft,
		SLADeadline: p.SLADeadline,
		RequesterID: p.RequesterID,
		Department:  p.Department,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if err := store.InsertCoverageRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to insert coverage request: %w", err)
	}

	logger.Info("Coverage request created",
		zap.String("request_id", req.ID),
		zap.String("title", req.Title),
		zap.String("priority", string(req.Priority)))
	return req, nil
}

// TransitionRequest moves a coverage request through its review machine
// (submit, approve, reject, request revision, archive). Moves the machine
// does not permit fail with ErrInvalidTransition.
func TransitionRequest(ctx context.Context, store RequestLifecycleStore, logger *zap.Logger, requestID string, target model.RequestStatus) (*model.CoverageRequest, error) {
	req, err := store.GetCoverageRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load coverage request: %w", err)
	}

	if !req.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("request %s cannot move %s -> %s: %w", req.ID, req.Status, target, ErrInvalidTransition)
	}

	if err := store.UpdateCoverageRequestStatus(ctx, req.ID, target); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	req.Status = target

	logger.Info("Coverage request transitioned",
		zap.String("request_id", req.ID),
		zap.String("status", string(target)))
	return req, nil
}
