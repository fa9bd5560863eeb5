package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

// ListOverdueApprovals returns requests awaiting approval whose SLA deadline
// has passed, ordered by deadline, capped at limit
func (d *DB) ListOverdueApprovals(ctx context.Context, now time.Time, limit int) ([]model.CoverageRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM coverage_request
		WHERE status = 'pending_approval' AND sla_deadline < $1
		ORDER BY sla_deadline, id
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue approvals: %w", err)
	}
	defer rows.Close()

	var out []model.CoverageRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage request: %w", err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue approvals: %w", err)
	}
	return out, nil
}

// ListOverdueAssignments returns non-terminal assignments past their window
// end, ordered by window end, capped at limit
func (d *DB) ListOverdueAssignments(ctx context.Context, now time.Time, limit int) ([]model.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM assignment
		WHERE status NOT IN ('completed', 'declined', 'cancelled') AND end_at < $1
		ORDER BY end_at, id
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue assignments: %w", err)
	}
	defer rows.Close()

	var out []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue assignments: %w", err)
	}
	return out, nil
}

// ListOverrunEvents returns in-progress events past their scheduled end,
// ordered by end, capped at limit
func (d *DB) ListOverrunEvents(ctx context.Context, now time.Time, limit int) ([]model.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE status = 'in_progress' AND end_at < $1
		ORDER BY end_at, id
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query overrun events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overrun events: %w", err)
	}
	return out, nil
}

// ListStaleDrafts returns draft requests created before olderThan, ordered by
// creation time, capped at limit
func (d *DB) ListStaleDrafts(ctx context.Context, olderThan time.Time, limit int) ([]model.CoverageRequest, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM coverage_request
		WHERE status = 'draft' AND created_at < $1
		ORDER BY created_at, id
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale drafts: %w", err)
	}
	defer rows.Close()

	var out []model.CoverageRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage request: %w", err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stale drafts: %w", err)
	}
	return out, nil
}

// GetEscalationState returns the escalation record for an item, or a zero-tier
// record if none has been written yet
func (d *DB) GetEscalationState(ctx context.Context, kind db.EscalationItemKind, itemID string) (*db.EscalationState, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT item_kind, item_id, tier, last_escalated_at, reason, reminder_sent_at
		FROM escalation_state
		WHERE item_kind = $1 AND item_id = $2
	`, kind, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query escalation state: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading escalation state: %w", err)
		}
		return &db.EscalationState{ItemKind: kind, ItemID: itemID}, nil
	}

	var st db.EscalationState
	var lastEscalatedAt *time.Time
	if err := rows.Scan(&st.ItemKind, &st.ItemID, &st.Tier, &lastEscalatedAt, &st.Reason, &st.ReminderSentAt); err != nil {
		return nil, fmt.Errorf("failed to scan escalation state: %w", err)
	}
	if lastEscalatedAt != nil {
		st.LastEscalatedAt = *lastEscalatedAt
	}
	return &st, nil
}

// UpsertEscalationState writes the escalation record for an item
func (d *DB) UpsertEscalationState(ctx context.Context, st *db.EscalationState) error {
	var lastEscalatedAt *time.Time
	if !st.LastEscalatedAt.IsZero() {
		lastEscalatedAt = &st.LastEscalatedAt
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO escalation_state (item_kind, item_id, tier, last_escalated_at, reason, reminder_sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (item_kind, item_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			last_escalated_at = EXCLUDED.last_escalated_at,
			reason = EXCLUDED.reason,
			reminder_sent_at = EXCLUDED.reminder_sent_at
	`, st.ItemKind, st.ItemID, st.Tier, lastEscalatedAt, st.Reason, st.ReminderSentAt)
	if err != nil {
		return fmt.Errorf("failed to upsert escalation state: %w", err)
	}
	return nil
}
