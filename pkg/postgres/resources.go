package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

const resourceColumns = `
	id, name, type, subtype, availability, lat, lon, last_maintenance, version
`

func scanResource(row pgx.Row) (*model.Resource, error) {
	var r model.Resource
	var lat, lon *float64
	err := row.Scan(
		&r.ID, &r.Name, &r.Type, &r.Subtype, &r.Availability,
		&lat, &lon, &r.LastMaintenance, &r.Version,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		r.Location = &model.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &r, nil
}

// loadBookings attaches booking entries to each resource in the map,
// ordered by start time
func (d *DB) loadBookings(ctx context.Context, byID map[string]*model.Resource) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT resource_id, id, event_id, start_at, end_at, status, condition, issues, created_at
		FROM booking_entry
		WHERE resource_id = ANY($1)
		ORDER BY start_at, id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query booking entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resourceID string
		var b model.BookingEntry
		if err := rows.Scan(&resourceID, &b.ID, &b.EventID, &b.Window.Start, &b.Window.End,
			&b.Status, &b.Condition, &b.Issues, &b.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan booking entry: %w", err)
		}
		if r, ok := byID[resourceID]; ok {
			r.Bookings = append(r.Bookings, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating booking entries: %w", err)
	}
	return nil
}

// GetResource retrieves a resource and its booking schedule by ID
func (d *DB) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+resourceColumns+`
		FROM resource
		WHERE id = $1
	`, id)

	r, err := scanResource(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resource %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resource: %w", err)
	}
	if err := d.loadBookings(ctx, map[string]*model.Resource{r.ID: r}); err != nil {
		return nil, err
	}
	return r, nil
}

// InsertResource stores a new resource and any booking entries it carries
func (d *DB) InsertResource(ctx context.Context, r *model.Resource) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if r.Version == 0 {
		r.Version = 1
	}
	lat, lon := coordColumns(r.Location)
	_, err = tx.Exec(ctx, `
		INSERT INTO resource (id, name, type, subtype, availability, lat, lon, last_maintenance, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.ID, r.Name, r.Type, r.Subtype, r.Availability, lat, lon, r.LastMaintenance, r.Version)
	if err != nil {
		return fmt.Errorf("failed to insert resource: %w", err)
	}

	if err := insertBookings(ctx, tx, r.ID, r.Bookings); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit resource insert: %w", err)
	}
	return nil
}

func insertBookings(ctx context.Context, tx pgx.Tx, resourceID string, bookings []model.BookingEntry) error {
	for _, b := range bookings {
		issues := b.Issues
		if issues == nil {
			issues = []string{}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO booking_entry (id, resource_id, event_id, start_at, end_at, status, condition, issues, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, b.ID, resourceID, b.EventID, b.Window.Start, b.Window.End, b.Status, b.Condition, issues, b.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert booking entry: %w", mapWriteErr(err))
		}
	}
	return nil
}

// UpdateResource rewrites a resource and its booking schedule only if the
// stored version still equals r.Version, bumping the version on success. A
// mismatch, or a booking write rejected by the overlap constraint, returns
// db.ErrVersionConflict so the caller re-reads and retries.
func (d *DB) UpdateResource(ctx context.Context, r *model.Resource) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lat, lon := coordColumns(r.Location)
	tag, err := tx.Exec(ctx, `
		UPDATE resource SET
			name = $2, type = $3, subtype = $4, availability = $5,
			lat = $6, lon = $7, last_maintenance = $8, version = version + 1
		WHERE id = $1 AND version = $9
	`, r.ID, r.Name, r.Type, r.Subtype, r.Availability, lat, lon, r.LastMaintenance, r.Version)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resource WHERE id = $1)`, r.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check resource existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("resource %s: %w", r.ID, db.ErrNotFound)
		}
		return fmt.Errorf("resource %s at version %d: %w", r.ID, r.Version, db.ErrVersionConflict)
	}

	// the schedule is rewritten wholesale under the version guard; the
	// exclusion constraint rejects any overlap a concurrent writer slipped in
	_, err = tx.Exec(ctx, `DELETE FROM booking_entry WHERE resource_id = $1`, r.ID)
	if err != nil {
		return fmt.Errorf("failed to clear booking entries: %w", err)
	}
	if err := insertBookings(ctx, tx, r.ID, r.Bookings); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit resource update: %w", mapWriteErr(err))
	}
	r.Version++
	return nil
}

// ListResourcesByCategory returns resources whose subtype matches the
// allocation category, with their booking schedules attached, ordered by ID.
func (d *DB) ListResourcesByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+resourceColumns+`
		FROM resource
		WHERE subtype = $1
		ORDER BY id
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	return d.collectResources(ctx, rows)
}

// ListResourcesBookedForEvent returns resources holding any booking entry for
// the given event, with their booking schedules attached.
func (d *DB) ListResourcesBookedForEvent(ctx context.Context, eventID string) ([]model.Resource, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+resourceColumns+`
		FROM resource
		WHERE id IN (SELECT resource_id FROM booking_entry WHERE event_id = $1)
		ORDER BY id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked resources: %w", err)
	}
	return d.collectResources(ctx, rows)
}

func (d *DB) collectResources(ctx context.Context, rows pgx.Rows) ([]model.Resource, error) {
	defer rows.Close()

	var ordered []*model.Resource
	byID := make(map[string]*model.Resource)
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		ordered = append(ordered, r)
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}
	rows.Close()

	if err := d.loadBookings(ctx, byID); err != nil {
		return nil, err
	}

	result := make([]model.Resource, 0, len(ordered))
	for _, r := range ordered {
		result = append(result, *r)
	}
	return result, nil
}
