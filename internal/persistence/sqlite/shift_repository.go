package sqlite

import (
	"context"

	"github.com/example/studio-booking/internal/persistence"
)

// ShiftRepository implements persistence.ShiftRepository on SQLite.
type ShiftRepository struct {
	pool *ConnectionPool
}

// NewShiftRepository creates a SQLite-backed technician shift repository.
func NewShiftRepository(pool *ConnectionPool) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

// CreateShift inserts a technician shift.
func (r *ShiftRepository) CreateShift(ctx context.Context, shift persistence.TechnicianShift) error {
	const query = `
		INSERT INTO technician_shifts (id, technician, studio, weekday, start_min, end_min, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		shift.ID,
		shift.Technician,
		shift.Studio,
		int(shift.Weekday),
		shift.Start,
		shift.End,
		boolToInt(shift.Active),
		formatTime(shift.CreatedAt),
		formatTime(shift.UpdatedAt),
	)
	return mapError(err)
}

// UpdateShift rewrites a technician shift.
func (r *ShiftRepository) UpdateShift(ctx context.Context, shift persistence.TechnicianShift) error {
	const query = `
		UPDATE technician_shifts
		SET technician = ?, studio = ?, weekday = ?, start_min = ?, end_min = ?, active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		shift.Technician,
		shift.Studio,
		int(shift.Weekday),
		shift.Start,
		shift.End,
		boolToInt(shift.Active),
		formatTime(shift.UpdatedAt),
		shift.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetShift retrieves a shift by id.
func (r *ShiftRepository) GetShift(ctx context.Context, id string) (persistence.TechnicianShift, error) {
	const query = `
		SELECT id, technician, studio, weekday, start_min, end_min, active, created_at, updated_at
		FROM technician_shifts WHERE id = ?
	`
	shift, err := scanShift(r.pool.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.TechnicianShift{}, mapError(err)
	}
	return shift, nil
}

// ListShifts returns shifts matching the filter ordered by start time.
func (r *ShiftRepository) ListShifts(ctx context.Context, filter persistence.ShiftFilter) ([]persistence.TechnicianShift, error) {
	query := `
		SELECT id, technician, studio, weekday, start_min, end_min, active, created_at, updated_at
		FROM technician_shifts WHERE 1=1
	`
	var args []any
	if filter.Studio != "" {
		query += " AND studio = ?"
		args = append(args, filter.Studio)
	}
	if filter.Weekday != nil {
		query += " AND weekday = ?"
		args = append(args, int(*filter.Weekday))
	}
	if filter.ActiveOnly {
		query += " AND active = 1"
	}
	query += " ORDER BY start_min, id"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var shifts []persistence.TechnicianShift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, mapError(err)
		}
		shifts = append(shifts, shift)
	}
	return shifts, mapError(rows.Err())
}

// DeleteShift removes a shift by id.
func (r *ShiftRepository) DeleteShift(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM technician_shifts WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanShift(row rowScanner) (persistence.TechnicianShift, error) {
	var (
		shift     persistence.TechnicianShift
		weekday   int
		active    int
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&shift.ID,
		&shift.Technician,
		&shift.Studio,
		&weekday,
		&shift.Start,
		&shift.End,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.TechnicianShift{}, err
	}

	shift.Weekday = weekdayFromInt(weekday)
	shift.Active = active != 0
	if shift.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.TechnicianShift{}, err
	}
	if shift.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.TechnicianShift{}, err
	}
	return shift, nil
}
