package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

const assignmentColumns = `
	id, event_id, personnel_id, role, start_at, end_at, status, department, actual_start, actual_end
`

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	var a model.Assignment
	err := row.Scan(
		&a.ID, &a.EventID, &a.PersonnelID, &a.Role,
		&a.Window.Start, &a.Window.End,
		&a.Status, &a.Department, &a.ActualStart, &a.ActualEnd,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssignment retrieves a single assignment by ID
func (d *DB) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM assignment
		WHERE id = $1
	`, id)

	a, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("assignment %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignment: %w", err)
	}
	return a, nil
}

// InsertAssignment stores a new assignment
func (d *DB) InsertAssignment(ctx context.Context, a *model.Assignment) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO assignment (id, event_id, personnel_id, role, start_at, end_at, status, department, actual_start, actual_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		a.ID, a.EventID, a.PersonnelID, a.Role,
		a.Window.Start, a.Window.End,
		a.Status, a.Department, a.ActualStart, a.ActualEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

// UpdateAssignment rewrites an assignment record
func (d *DB) UpdateAssignment(ctx context.Context, a *model.Assignment) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE assignment SET
			event_id = $2, personnel_id = $3, role = $4,
			start_at = $5, end_at = $6, status = $7, department = $8,
			actual_start = $9, actual_end = $10
		WHERE id = $1
	`,
		a.ID, a.EventID, a.PersonnelID, a.Role,
		a.Window.Start, a.Window.End,
		a.Status, a.Department, a.ActualStart, a.ActualEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assignment %s: %w", a.ID, db.ErrNotFound)
	}
	return nil
}
