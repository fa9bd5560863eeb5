// Package escalation surfaces overdue work to progressively higher levels of
// authority. A pass scans the three overdue classes, derives each item's tier
// from elapsed time, and notifies the tier's role exactly once per tier
// crossing.
package escalation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
	"github.com/Gebrish-A/amc-scheduling/pkg/notify"
)

// DefaultStaleDraftAge is how old a draft must be before its owner gets a reminder
const DefaultStaleDraftAge = 24 * time.Hour

// DefaultScanLimit caps each overdue class per pass, keeping pass latency bounded
const DefaultScanLimit = 20

// DefaultArchiveDraftAge is how old a draft must be before the stale sweep
// archives it outright. Reminded-but-ignored drafts eventually leave the
// working set this way.
const DefaultArchiveDraftAge = 7 * 24 * time.Hour

// Store defines the database operations needed by an escalation pass
type Store interface {
	ListOverdueApprovals(ctx context.Context, now time.Time, limit int) ([]model.CoverageRequest, error)
	ListOverdueAssignments(ctx context.Context, now time.Time, limit int) ([]model.Assignment, error)
	ListOverrunEvents(ctx context.Context, now time.Time, limit int) ([]model.Event, error)
	ListStaleDrafts(ctx context.Context, olderThan time.Time, limit int) ([]model.CoverageRequest, error)
	GetEscalationState(ctx context.Context, kind db.EscalationItemKind, itemID string) (*db.EscalationState, error)
	UpsertEscalationState(ctx context.Context, st *db.EscalationState) error
	UpdateCoverageRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
}

// Escalated records one tier crossing performed during a pass
type Escalated struct {
	Kind       db.EscalationItemKind
	ItemID     string
	Tier       int
	Recipients int
	Reason     string
}

// Reminder records one stale-draft reminder sent during a pass
type Reminder struct {
	ItemID  string
	OwnerID string
}

// ItemFailure records one item whose processing failed; the pass continues
type ItemFailure struct {
	Kind   db.EscalationItemKind
	ItemID string
	Err    string
}

// Report is the outcome of a single escalation pass
type Report struct {
	Escalated []Escalated
	Reminders []Reminder
	Archived  []string
	Failures  []ItemFailure
}

// Engine runs periodic escalation passes
type Engine struct {
	store      Store
	directory  notify.Directory
	dispatcher *notify.Dispatcher
	ladder     Ladder
	staleAfter time.Duration
	scanLimit  int
	logger     *zap.Logger
}

// NewEngine creates an escalation engine. Zero staleAfter/scanLimit fall back
// to the defaults.
func NewEngine(store Store, directory notify.Directory, dispatcher *notify.Dispatcher, ladder Ladder, staleAfter time.Duration, scanLimit int, logger *zap.Logger) *Engine {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleDraftAge
	}
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &Engine{
		store:      store,
		directory:  directory,
		dispatcher: dispatcher,
		ladder:     ladder,
		staleAfter: staleAfter,
		scanLimit:  scanLimit,
		logger:     logger,
	}
}

// overdueItem is the common shape the three overdue classes reduce to
type overdueItem struct {
	kind       db.EscalationItemKind
	id         string
	title      string
	due        time.Time
	department string
}

// RunPass scans all overdue classes as of now and drives notifications and
// escalation records. One item's failure never aborts the pass; it is
// reported in the returned Report instead.
func (e *Engine) RunPass(ctx context.Context, now time.Time) (*Report, error) {
	e.logger.Debug("Starting escalation pass", zap.Time("now", now))
	report := &Report{}

	if err := e.escalateOverdue(ctx, now, report); err != nil {
		return nil, err
	}
	if err := e.remindStaleDrafts(ctx, now, report); err != nil {
		return nil, err
	}

	e.logger.Info("Escalation pass complete",
		zap.Int("escalated", len(report.Escalated)),
		zap.Int("reminders", len(report.Reminders)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

// RunEscalationSweep runs only the overdue tier-crossing scan. The daemon
// drives this on the SLA-check cadence.
func (e *Engine) RunEscalationSweep(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{}
	if err := e.escalateOverdue(ctx, now, report); err != nil {
		return nil, err
	}
	e.logger.Info("Escalation sweep complete",
		zap.Int("escalated", len(report.Escalated)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

// RunReminderSweep runs only the stale-draft reminder scan
func (e *Engine) RunReminderSweep(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{}
	if err := e.remindStaleDrafts(ctx, now, report); err != nil {
		return nil, err
	}
	e.logger.Info("Reminder sweep complete",
		zap.Int("reminders", len(report.Reminders)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

// RunStaleDraftSweep archives drafts abandoned past DefaultArchiveDraftAge.
// Their owners were already reminded by the reminder sweep.
func (e *Engine) RunStaleDraftSweep(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{}
	drafts, err := e.store.ListStaleDrafts(ctx, now.Add(-DefaultArchiveDraftAge), e.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list abandoned drafts: %w", err)
	}

	for _, draft := range drafts {
		if err := e.store.UpdateCoverageRequestStatus(ctx, draft.ID, model.RequestArchived); err != nil {
			report.Failures = append(report.Failures, ItemFailure{Kind: db.EscalationKindRequest, ItemID: draft.ID, Err: err.Error()})
			continue
		}
		e.logger.Debug("Archived abandoned draft", zap.String("request_id", draft.ID))
		report.Archived = append(report.Archived, draft.ID)
	}

	e.logger.Info("Stale draft sweep complete",
		zap.Int("archived", len(report.Archived)),
		zap.Int("failures", len(report.Failures)))
	return report, nil
}

func (e *Engine) escalateOverdue(ctx context.Context, now time.Time, report *Report) error {
	items, err := e.collectOverdue(ctx, now, report)
	if err != nil {
		return err
	}
	e.logger.Debug("Collected overdue items", zap.Int("count", len(items)))

	for _, item := range items {
		if err := e.escalateItem(ctx, now, item, report); err != nil {
			e.logger.Warn("failed to escalate item",
				zap.String("kind", string(item.kind)),
				zap.String("item_id", item.id),
				zap.Error(err))
			report.Failures = append(report.Failures, ItemFailure{Kind: item.kind, ItemID: item.id, Err: err.Error()})
		}
	}
	return nil
}

func (e *Engine) collectOverdue(ctx context.Context, now time.Time, report *Report) ([]overdueItem, error) {
	var items []overdueItem

	requests, err := e.store.ListOverdueApprovals(ctx, now, e.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue approvals: %w", err)
	}
	for _, req := range requests {
		items = append(items, overdueItem{
			kind:       db.EscalationKindRequest,
			id:         req.ID,
			title:      req.Title,
			due:        *req.SLADeadline,
			department: req.Department,
		})
	}

	assignments, err := e.store.ListOverdueAssignments(ctx, now, e.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue assignments: %w", err)
	}
	for _, a := range assignments {
		items = append(items, overdueItem{
			kind:       db.EscalationKindAssignment,
			id:         a.ID,
			title:      a.Role,
			due:        a.Window.End,
			department: a.Department,
		})
	}

	events, err := e.store.ListOverrunEvents(ctx, now, e.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrun events: %w", err)
	}
	for _, ev := range events {
		items = append(items, overdueItem{
			kind:       db.EscalationKindEvent,
			id:         ev.ID,
			title:      ev.Title,
			due:        ev.Window.End,
			department: ev.Department,
		})
	}

	return items, nil
}

// escalateItem applies the tier ladder to one overdue item. Notifications
// fire only on a strict tier increase, which makes repeated passes at the
// same elapsed time idempotent.
func (e *Engine) escalateItem(ctx context.Context, now time.Time, item overdueItem, report *Report) error {
	elapsed := now.Sub(item.due)
	tier := e.ladder.TierFor(elapsed)
	if tier == TierNone {
		return nil
	}

	state, err := e.store.GetEscalationState(ctx, item.kind, item.id)
	if err != nil {
		return fmt.Errorf("failed to load escalation state: %w", err)
	}
	if tier <= state.Tier {
		return nil
	}

	role := RoleForTier(tier)
	recipients, err := e.directory.UsersWithRole(ctx, role, item.department)
	if err != nil {
		return fmt.Errorf("failed to resolve %s recipients: %w", role, err)
	}

	priority := notify.PriorityHigh
	if tier >= TierDepartmentHead {
		priority = notify.PriorityCritical
	}

	reason := fmt.Sprintf("%s %q overdue by %s (tier %d)", item.kind, item.title, elapsed.Round(time.Minute), tier)
	sent := e.dispatcher.Send(ctx, recipients, reason, priority)
	e.logger.Debug("Escalated item",
		zap.String("kind", string(item.kind)),
		zap.String("item_id", item.id),
		zap.Int("tier", tier),
		zap.Int("recipients", len(recipients)),
		zap.Int("delivered", sent))

	state.Tier = tier
	state.LastEscalatedAt = now
	state.Reason = reason
	if err := e.store.UpsertEscalationState(ctx, state); err != nil {
		return fmt.Errorf("failed to persist escalation state: %w", err)
	}

	report.Escalated = append(report.Escalated, Escalated{
		Kind:       item.kind,
		ItemID:     item.id,
		Tier:       tier,
		Recipients: len(recipients),
		Reason:     reason,
	})
	return nil
}

// remindStaleDrafts sends a single reminder to the owner of each draft older
// than the staleness window. Drafts are never escalated up the ladder.
func (e *Engine) remindStaleDrafts(ctx context.Context, now time.Time, report *Report) error {
	drafts, err := e.store.ListStaleDrafts(ctx, now.Add(-e.staleAfter), e.scanLimit)
	if err != nil {
		return fmt.Errorf("failed to list stale drafts: %w", err)
	}

	for _, draft := range drafts {
		state, err := e.store.GetEscalationState(ctx, db.EscalationKindRequest, draft.ID)
		if err != nil {
			report.Failures = append(report.Failures, ItemFailure{Kind: db.EscalationKindRequest, ItemID: draft.ID, Err: err.Error()})
			continue
		}
		if state.ReminderSentAt != nil {
			continue
		}

		message := fmt.Sprintf("coverage request %q has been in draft for over %s", draft.Title, e.staleAfter)
		e.dispatcher.Send(ctx, []string{draft.RequesterID}, message, notify.PriorityNormal)

		sentAt := now
		state.ReminderSentAt = &sentAt
		if err := e.store.UpsertEscalationState(ctx, state); err != nil {
			report.Failures = append(report.Failures, ItemFailure{Kind: db.EscalationKindRequest, ItemID: draft.ID, Err: err.Error()})
			continue
		}
		report.Reminders = append(report.Reminders, Reminder{ItemID: draft.ID, OwnerID: draft.RequesterID})
	}

	return nil
}
