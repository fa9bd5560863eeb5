package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

const requestColumns = `
	id, title, category, priority, start_at, end_at,
	location_name, location_address, lat, lon,
	status, sla_deadline, requester_id, department, created_at, updated_at
`

func scanRequest(row pgx.Row) (*model.CoverageRequest, error) {
	var req model.CoverageRequest
	var lat, lon *float64
	err := row.Scan(
		&req.ID, &req.Title, &req.Category, &req.Priority,
		&req.Window.Start, &req.Window.End,
		&req.Location.Name, &req.Location.Address, &lat, &lon,
		&req.Status, &req.SLADeadline, &req.RequesterID, &req.Department,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		req.Location.Coordinates = &model.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &req, nil
}

func coordColumns(p *model.GeoPoint) (lat, lon *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Lat, &p.Lon
}

// GetCoverageRequest retrieves a single coverage request by ID
func (d *DB) GetCoverageRequest(ctx context.Context, id string) (*model.CoverageRequest, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM coverage_request
		WHERE id = $1
	`, id)

	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("coverage request %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan coverage request: %w", err)
	}
	return req, nil
}

// InsertCoverageRequest stores a new coverage request
func (d *DB) InsertCoverageRequest(ctx context.Context, req *model.CoverageRequest) error {
	lat, lon := coordColumns(req.Location.Coordinates)
	_, err := d.pool.Exec(ctx, `
		INSERT INTO coverage_request (
			id, title, category, priority, start_at, end_at,
			location_name, location_address, lat, lon,
			status, sla_deadline, requester_id, department, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		req.ID, req.Title, req.Category, req.Priority,
		req.Window.Start, req.Window.End,
		req.Location.Name, req.Location.Address, lat, lon,
		req.Status, req.SLADeadline, req.RequesterID, req.Department,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert coverage request: %w", err)
	}
	return nil
}

// UpdateCoverageRequestStatus moves a coverage request to a new lifecycle status
func (d *DB) UpdateCoverageRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE coverage_request
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update coverage request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("coverage request %s: %w", id, db.ErrNotFound)
	}
	return nil
}
