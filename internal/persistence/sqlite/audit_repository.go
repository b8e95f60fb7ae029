package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/studio-booking/internal/persistence"
)

// AuditRepository implements persistence.AuditRepository on SQLite.
type AuditRepository struct {
	pool *ConnectionPool
}

// NewAuditRepository creates a SQLite-backed audit log repository.
func NewAuditRepository(pool *ConnectionPool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// AppendAudit records one booking mutation.
func (r *AuditRepository) AppendAudit(ctx context.Context, entry persistence.AuditEntry) error {
	const query = `
		INSERT INTO audit_log (id, booking_id, action, actor_id, actor_email, before_json, after_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		entry.ID,
		entry.BookingID,
		entry.Action,
		entry.ActorID,
		entry.ActorEmail,
		nullableBlob(entry.Before),
		nullableBlob(entry.After),
		formatTime(entry.CreatedAt),
	)
	return mapError(err)
}

// ListAuditForBooking returns the change log of one booking, oldest first.
func (r *AuditRepository) ListAuditForBooking(ctx context.Context, bookingID string) ([]persistence.AuditEntry, error) {
	const query = `
		SELECT id, booking_id, action, actor_id, actor_email, before_json, after_json, created_at
		FROM audit_log WHERE booking_id = ? ORDER BY created_at, id
	`
	rows, err := r.pool.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.AuditEntry
	for rows.Next() {
		var (
			entry     persistence.AuditEntry
			before    sql.NullString
			after     sql.NullString
			createdAt string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.Action,
			&entry.ActorID,
			&entry.ActorEmail,
			&before,
			&after,
			&createdAt,
		); err != nil {
			return nil, mapError(err)
		}
		if before.Valid {
			entry.Before = []byte(before.String)
		}
		if after.Valid {
			entry.After = []byte(after.String)
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, mapError(rows.Err())
}

func nullableBlob(raw []byte) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
