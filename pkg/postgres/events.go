package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

const eventColumns = `
	id, request_id, title, start_at, end_at,
	location_name, location_address, lat, lon,
	status, department, allocations, incidents, revision, actual_start, actual_end
`

// jsonAllocation mirrors model.ResourceAllocation for the JSONB column
type jsonAllocation struct {
	Category    string   `json:"category"`
	ResourceIDs []string `json:"resource_ids"`
}

// jsonIncident mirrors model.IncidentNote for the JSONB column
type jsonIncident struct {
	At       string `json:"at"`
	Severity string `json:"severity"`
	Note     string `json:"note"`
}

func marshalAllocations(allocs []model.ResourceAllocation) ([]byte, error) {
	out := make([]jsonAllocation, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, jsonAllocation{Category: a.Category, ResourceIDs: a.ResourceIDs})
	}
	return json.Marshal(out)
}

func marshalIncidents(notes []model.IncidentNote) ([]byte, error) {
	out := make([]jsonIncident, 0, len(notes))
	for _, n := range notes {
		out = append(out, jsonIncident{At: n.At.Format(timeLayout), Severity: n.Severity, Note: n.Note})
	}
	return json.Marshal(out)
}

const timeLayout = time.RFC3339Nano

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var ev model.Event
	var lat, lon *float64
	var allocsRaw, incidentsRaw []byte
	err := row.Scan(
		&ev.ID, &ev.RequestID, &ev.Title,
		&ev.Window.Start, &ev.Window.End,
		&ev.Location.Name, &ev.Location.Address, &lat, &lon,
		&ev.Status, &ev.Department, &allocsRaw, &incidentsRaw,
		&ev.Revision, &ev.ActualStart, &ev.ActualEnd,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		ev.Location.Coordinates = &model.GeoPoint{Lat: *lat, Lon: *lon}
	}

	var allocs []jsonAllocation
	if err := json.Unmarshal(allocsRaw, &allocs); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}
	for _, a := range allocs {
		ev.Allocations = append(ev.Allocations, model.ResourceAllocation{Category: a.Category, ResourceIDs: a.ResourceIDs})
	}

	var incidents []jsonIncident
	if err := json.Unmarshal(incidentsRaw, &incidents); err != nil {
		return nil, fmt.Errorf("failed to decode incidents: %w", err)
	}
	for _, n := range incidents {
		note := model.IncidentNote{Severity: n.Severity, Note: n.Note}
		if note.At, err = parseTimestamp(n.At); err != nil {
			return nil, fmt.Errorf("failed to decode incident timestamp: %w", err)
		}
		ev.Incidents = append(ev.Incidents, note)
	}

	return &ev, nil
}

// GetEvent retrieves a single event by ID
func (d *DB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE id = $1
	`, id)

	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	return ev, nil
}

// InsertEvent stores a new event. The stored revision starts at the value
// carried by the event (normally 1).
func (d *DB) InsertEvent(ctx context.Context, ev *model.Event) error {
	allocsRaw, err := marshalAllocations(ev.Allocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}
	incidentsRaw, err := marshalIncidents(ev.Incidents)
	if err != nil {
		return fmt.Errorf("failed to encode incidents: %w", err)
	}

	lat, lon := coordColumns(ev.Location.Coordinates)
	_, err = d.pool.Exec(ctx, `
		INSERT INTO event (
			id, request_id, title, start_at, end_at,
			location_name, location_address, lat, lon,
			status, department, allocations, incidents, revision, actual_start, actual_end
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		ev.ID, ev.RequestID, ev.Title,
		ev.Window.Start, ev.Window.End,
		ev.Location.Name, ev.Location.Address, lat, lon,
		ev.Status, ev.Department, allocsRaw, incidentsRaw,
		ev.Revision, ev.ActualStart, ev.ActualEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// UpdateEvent rewrites an event only if the stored revision still equals
// expectedRevision, bumping the revision by one. A mismatch returns
// db.ErrVersionConflict; callers re-read and retry or surface staleness.
func (d *DB) UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error {
	allocsRaw, err := marshalAllocations(ev.Allocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}
	incidentsRaw, err := marshalIncidents(ev.Incidents)
	if err != nil {
		return fmt.Errorf("failed to encode incidents: %w", err)
	}

	lat, lon := coordColumns(ev.Location.Coordinates)
	tag, err := d.pool.Exec(ctx, `
		UPDATE event SET
			title = $2, start_at = $3, end_at = $4,
			location_name = $5, location_address = $6, lat = $7, lon = $8,
			status = $9, department = $10, allocations = $11, incidents = $12,
			revision = revision + 1, actual_start = $13, actual_end = $14
		WHERE id = $1 AND revision = $15
	`,
		ev.ID, ev.Title,
		ev.Window.Start, ev.Window.End,
		ev.Location.Name, ev.Location.Address, lat, lon,
		ev.Status, ev.Department, allocsRaw, incidentsRaw,
		ev.ActualStart, ev.ActualEnd,
		expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := d.eventExists(ctx, ev.ID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("event %s: %w", ev.ID, db.ErrNotFound)
		}
		return fmt.Errorf("event %s at revision %d: %w", ev.ID, expectedRevision, db.ErrVersionConflict)
	}
	ev.Revision = expectedRevision + 1
	return nil
}

func (d *DB) eventExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM event WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists, nil
}

// DeleteEvent removes an event record
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// ListActiveEventsOverlapping returns scheduled and in-progress events whose
// half-open window overlaps the given one, ordered by start time and capped
// at limit.
func (d *DB) ListActiveEventsOverlapping(ctx context.Context, window model.TimeWindow, limit int) ([]model.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE status IN ('scheduled', 'in_progress')
		  AND start_at < $2 AND end_at > $1
		ORDER BY start_at, id
		LIMIT $3
	`, window.Start, window.End, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}
