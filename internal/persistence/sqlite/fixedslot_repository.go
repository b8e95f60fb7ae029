package sqlite

import (
	"context"

	"github.com/example/studio-booking/internal/persistence"
)

// FixedSlotRepository implements persistence.FixedSlotRepository on SQLite.
type FixedSlotRepository struct {
	pool *ConnectionPool
}

// NewFixedSlotRepository creates a SQLite-backed fixed slot repository.
func NewFixedSlotRepository(pool *ConnectionPool) *FixedSlotRepository {
	return &FixedSlotRepository{pool: pool}
}

// CreateFixedSlot inserts a weekly session template.
func (r *FixedSlotRepository) CreateFixedSlot(ctx context.Context, slot persistence.FixedSlot) error {
	technicians, err := encodeNames(slot.Technicians)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO fixed_slots (id, subject, proposal, professor, studio, technicians, weekday, start_min, end_min, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.pool.db.ExecContext(ctx, query,
		slot.ID,
		slot.Subject,
		slot.Proposal,
		slot.Professor,
		slot.Studio,
		technicians,
		int(slot.Weekday),
		slot.Start,
		slot.End,
		slot.Type,
		formatTime(slot.CreatedAt),
	)
	return mapError(err)
}

// DeleteFixedSlot removes a template by id.
func (r *FixedSlotRepository) DeleteFixedSlot(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM fixed_slots WHERE id = ?", id)
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

// ListFixedSlots returns every template.
func (r *FixedSlotRepository) ListFixedSlots(ctx context.Context) ([]persistence.FixedSlot, error) {
	const query = `
		SELECT id, subject, proposal, professor, studio, technicians, weekday, start_min, end_min, type, created_at
		FROM fixed_slots ORDER BY weekday, start_min, id
	`
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var slots []persistence.FixedSlot
	for rows.Next() {
		var (
			slot        persistence.FixedSlot
			technicians string
			weekday     int
			createdAt   string
		)
		if err := rows.Scan(
			&slot.ID,
			&slot.Subject,
			&slot.Proposal,
			&slot.Professor,
			&slot.Studio,
			&technicians,
			&weekday,
			&slot.Start,
			&slot.End,
			&slot.Type,
			&createdAt,
		); err != nil {
			return nil, mapError(err)
		}
		slot.Weekday = weekdayFromInt(weekday)
		if slot.Technicians, err = decodeNames(technicians); err != nil {
			return nil, err
		}
		if slot.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, mapError(rows.Err())
}
