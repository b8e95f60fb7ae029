package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/testfixtures"
)

func TestBootstrapAdminSeedsEmptyDatabase(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	t.Setenv("STUDIO_ADMIN_EMAIL", "Diretor@Escola.BR")
	t.Setenv("STUDIO_ADMIN_PASSWORD", "senha-inicial")

	ids := testfixtures.NewIDGenerator("user")
	clock := testfixtures.NewClock(time.Time{})
	if err := bootstrapAdmin(ctx, harness.Users, ids.NextFunc(), clock.NowFunc(), slog.Default()); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	admin, err := harness.Users.GetUserByEmail(ctx, "diretor@escola.br")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatalf("bootstrap account is not an administrator: %+v", admin)
	}
	if err := application.VerifyPassword(admin.PasswordHash, "senha-inicial"); err != nil {
		t.Fatalf("verify bootstrap password: %v", err)
	}
}

func TestBootstrapAdminSkipsPopulatedDatabase(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	existing := testfixtures.NewUser()
	if err := harness.Users.CreateUser(ctx, existing); err != nil {
		t.Fatalf("create user: %v", err)
	}

	ids := testfixtures.NewIDGenerator("user")
	clock := testfixtures.NewClock(time.Time{})
	if err := bootstrapAdmin(ctx, harness.Users, ids.NextFunc(), clock.NowFunc(), slog.Default()); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	users, err := harness.Users.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("user count = %d, want 1", len(users))
	}
}
