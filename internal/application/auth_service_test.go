package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

func testAuthService(t *testing.T, now time.Time) (*AuthService, *userRepoStub, *sessionRepoStub) {
	t.Helper()
	hash, err := HashPassword("senha-secreta")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	users := newUserRepoStub(persistence.User{
		ID:           "user-1",
		Email:        "ana@escola.br",
		DisplayName:  "Ana",
		PasswordHash: hash,
	})
	sessions := newSessionRepoStub()
	service := NewAuthService(users, sessions, []byte("test-secret"), sequentialIDs("sess"), fixedClock(now), time.Hour, nil)
	return service, users, sessions
}

func TestAuthenticateIssuesSession(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	service, _, sessions := testAuthService(t, now)

	result, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "Ana@Escola.br",
		Password: "senha-secreta",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if result.User.ID != "user-1" {
		t.Fatalf("expected user-1, got %q", result.User.ID)
	}
	if result.Session.Token == "" {
		t.Fatal("expected a plaintext token")
	}
	if !result.Session.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", result.Session.ExpiresAt)
	}
	// Only the digest is persisted.
	if _, ok := sessions.records[result.Session.Token]; ok {
		t.Fatal("plaintext token must not be stored")
	}
	if len(sessions.records) != 1 {
		t.Fatalf("expected one stored session, got %d", len(sessions.records))
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	service, _, _ := testAuthService(t, time.Now())

	_, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "ana@escola.br",
		Password: "errada",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	service, _, _ := testAuthService(t, time.Now())

	_, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "nao-existe@escola.br",
		Password: "senha-secreta",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	service, users, _ := testAuthService(t, time.Now())
	account := users.records["user-1"]
	account.Disabled = true
	users.records["user-1"] = account

	_, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "ana@escola.br",
		Password: "senha-secreta",
	})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestValidateSessionRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	service, _, _ := testAuthService(t, now)

	result, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "ana@escola.br",
		Password: "senha-secreta",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	principal, err := service.ValidateSession(context.Background(), result.Session.Token)
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if principal.UserID != "user-1" || principal.Email != "ana@escola.br" {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestValidateSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	service, _, _ := testAuthService(t, now)

	result, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "ana@escola.br",
		Password: "senha-secreta",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	service.now = fixedClock(now.Add(2 * time.Hour))
	if _, err := service.ValidateSession(context.Background(), result.Session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestValidateSessionRevoked(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	service, _, _ := testAuthService(t, now)

	result, err := service.Authenticate(context.Background(), AuthenticateParams{
		Email:    "ana@escola.br",
		Password: "senha-secreta",
	})
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if err := service.RevokeSession(context.Background(), result.Session.Token); err != nil {
		t.Fatalf("RevokeSession returned error: %v", err)
	}
	if _, err := service.ValidateSession(context.Background(), result.Session.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}

func TestValidateSessionUnknownToken(t *testing.T) {
	service, _, _ := testAuthService(t, time.Now())

	if _, err := service.ValidateSession(context.Background(), "forged"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
