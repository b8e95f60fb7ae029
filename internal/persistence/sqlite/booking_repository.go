package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/studio-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository on SQLite.
type BookingRepository struct {
	pool *ConnectionPool
}

// NewBookingRepository creates a SQLite-backed booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// CreateBooking inserts a new booking row.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	technicians, err := encodeNames(booking.Technicians)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO bookings (id, date, start_min, end_min, studio, subject, proposal, professor, technicians, type, owner_id, owner_email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.pool.db.ExecContext(ctx, query,
		booking.ID,
		booking.Date,
		booking.Start,
		booking.End,
		booking.Studio,
		booking.Subject,
		booking.Proposal,
		booking.Professor,
		technicians,
		booking.Type,
		booking.OwnerID,
		booking.OwnerEmail,
		formatTime(booking.CreatedAt),
		formatTime(booking.UpdatedAt),
	)
	return mapError(err)
}

// UpdateBooking rewrites a booking row. The owner and creation timestamp are
// preserved from the stored row.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	technicians, err := encodeNames(booking.Technicians)
	if err != nil {
		return err
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var ownerID string
		if err := tx.QueryRow("SELECT owner_id FROM bookings WHERE id = ?", booking.ID).Scan(&ownerID); err != nil {
			return mapError(err)
		}

		const query = `
			UPDATE bookings
			SET date = ?, start_min = ?, end_min = ?, studio = ?, subject = ?, proposal = ?, professor = ?, technicians = ?, type = ?, updated_at = ?
			WHERE id = ?
		`
		result, err := tx.Exec(query,
			booking.Date,
			booking.Start,
			booking.End,
			booking.Studio,
			booking.Subject,
			booking.Proposal,
			booking.Professor,
			technicians,
			booking.Type,
			formatTime(booking.UpdatedAt),
			booking.ID,
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
	})
}

// GetBooking retrieves a booking by id.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	const query = `
		SELECT id, date, start_min, end_min, studio, subject, proposal, professor, technicians, type, owner_id, owner_email, created_at, updated_at
		FROM bookings WHERE id = ?
	`
	row := r.pool.db.QueryRowContext(ctx, query, id)
	booking, err := scanBooking(row)
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}
	return booking, nil
}

// ListBookings returns bookings matching the filter ordered by date then
// start time.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `
		SELECT id, date, start_min, end_min, studio, subject, proposal, professor, technicians, type, owner_id, owner_email, created_at, updated_at
		FROM bookings
	`
	var (
		clauses []string
		args    []any
	)
	if filter.Date != "" {
		clauses = append(clauses, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.Studio != "" {
		clauses = append(clauses, "studio = ?")
		args = append(args, filter.Studio)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY date, start_min, id"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, mapError(err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, mapError(rows.Err())
}

// DeleteBooking removes a booking by id.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking     persistence.Booking
		technicians string
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&booking.ID,
		&booking.Date,
		&booking.Start,
		&booking.End,
		&booking.Studio,
		&booking.Subject,
		&booking.Proposal,
		&booking.Professor,
		&technicians,
		&booking.Type,
		&booking.OwnerID,
		&booking.OwnerEmail,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	if booking.Technicians, err = decodeNames(technicians); err != nil {
		return persistence.Booking{}, err
	}
	if booking.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}
