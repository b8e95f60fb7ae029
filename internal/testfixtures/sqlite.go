package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/studio-booking/internal/persistence/sqlite"
)

// SQLiteHarness bundles every repository backed by a temporary migrated
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool        *sqlite.ConnectionPool
	Bookings    *sqlite.BookingRepository
	Blackouts   *sqlite.BlackoutRepository
	Rules       *sqlite.DurationRuleRepository
	Shifts      *sqlite.ShiftRepository
	Permissions *sqlite.PermissionRepository
	Users       *sqlite.UserRepository
	Sessions    *sqlite.SessionRepository
	Audit       *sqlite.AuditRepository
	FixedSlots  *sqlite.FixedSlotRepository
}

// NewSQLiteHarness opens a database under tb.TempDir, migrates it and wires
// all repositories. Cleanup is registered with tb.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "studio-booking.db")
	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("open database: %v", err)
	}
	tb.Cleanup(func() { _ = pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		tb.Fatalf("migrate database: %v", err)
	}

	return &SQLiteHarness{
		Pool:        pool,
		Bookings:    sqlite.NewBookingRepository(pool),
		Blackouts:   sqlite.NewBlackoutRepository(pool),
		Rules:       sqlite.NewDurationRuleRepository(pool),
		Shifts:      sqlite.NewShiftRepository(pool),
		Permissions: sqlite.NewPermissionRepository(pool),
		Users:       sqlite.NewUserRepository(pool),
		Sessions:    sqlite.NewSessionRepository(pool),
		Audit:       sqlite.NewAuditRepository(pool),
		FixedSlots:  sqlite.NewFixedSlotRepository(pool),
	}
}
