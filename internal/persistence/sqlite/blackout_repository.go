package sqlite

import (
	"context"

	"github.com/example/studio-booking/internal/persistence"
)

// BlackoutRepository implements persistence.BlackoutRepository on SQLite.
type BlackoutRepository struct {
	pool *ConnectionPool
}

// NewBlackoutRepository creates a SQLite-backed blackout repository.
func NewBlackoutRepository(pool *ConnectionPool) *BlackoutRepository {
	return &BlackoutRepository{pool: pool}
}

// CreateBlackout inserts a blackout window.
func (r *BlackoutRepository) CreateBlackout(ctx context.Context, blackout persistence.BlackoutPeriod) error {
	const query = `
		INSERT INTO blackouts (id, studio, date, start_min, end_min, reason, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		blackout.ID,
		blackout.Studio,
		blackout.Date,
		blackout.Start,
		blackout.End,
		blackout.Reason,
		blackout.CreatedBy,
		formatTime(blackout.CreatedAt),
	)
	return mapError(err)
}

// DeleteBlackout removes a blackout window by id.
func (r *BlackoutRepository) DeleteBlackout(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM blackouts WHERE id = ?", id)
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

// ListBlackouts returns blackout windows, optionally narrowed to one studio.
func (r *BlackoutRepository) ListBlackouts(ctx context.Context, studio string) ([]persistence.BlackoutPeriod, error) {
	query := "SELECT id, studio, date, start_min, end_min, reason, created_by, created_at FROM blackouts"
	var args []any
	if studio != "" {
		query += " WHERE studio = ?"
		args = append(args, studio)
	}
	query += " ORDER BY date, start_min, id"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var blackouts []persistence.BlackoutPeriod
	for rows.Next() {
		var (
			blackout  persistence.BlackoutPeriod
			createdAt string
		)
		if err := rows.Scan(
			&blackout.ID,
			&blackout.Studio,
			&blackout.Date,
			&blackout.Start,
			&blackout.End,
			&blackout.Reason,
			&blackout.CreatedBy,
			&createdAt,
		); err != nil {
			return nil, mapError(err)
		}
		if blackout.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		blackouts = append(blackouts, blackout)
	}
	return blackouts, mapError(rows.Err())
}
