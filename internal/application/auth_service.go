package application

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates login, logout and session validation. Issued
// tokens are opaque; only an HMAC digest keyed with the session secret is
// persisted, so a leaked database cannot be replayed as live sessions.
type AuthService struct {
	users          persistence.UserRepository
	sessions       persistence.SessionRepository
	verifyPassword PasswordVerifier
	idGenerator    func() string
	now            func() time.Time
	secret         []byte
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users persistence.UserRepository, sessions persistence.SessionRepository, secret []byte, idGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:          users,
		sessions:       sessions,
		verifyPassword: VerifyPassword,
		idGenerator:    idGenerator,
		now:            now,
		secret:         secret,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "auth", operation, attrs...)
}

// Authenticate validates credentials and issues a new session token. The
// returned Session carries the plaintext token; it is never stored.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.users == nil || s.sessions == nil {
		err = fmt.Errorf("user and session repositories not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))

	logger := s.loggerWith(ctx, "authenticate", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID, "session_id", result.Session.ID).
			InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	account, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if isNotFoundError(err) {
			err = ErrInvalidCredentials
			return
		}
		return
	}
	if account.Disabled {
		err = ErrAccountDisabled
		return
	}
	if err = s.verifyPassword(account.PasswordHash, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	token, err := generateToken()
	if err != nil {
		return
	}

	now := s.now()
	session := persistence.Session{
		ID:        s.idGenerator(),
		UserID:    account.ID,
		Token:     s.digest(token),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err = s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		return
	}
	if err = s.sessions.CreateSession(ctx, session); err != nil {
		err = mapBookingRepoError(err)
		return
	}

	result = AuthenticateResult{
		User: toUser(account),
		Session: Session{
			ID:        session.ID,
			UserID:    session.UserID,
			Token:     token,
			ExpiresAt: session.ExpiresAt,
			CreatedAt: session.CreatedAt,
		},
	}
	return
}

// ValidateSession verifies the token and returns its principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.users == nil || s.sessions == nil {
		return Principal{}, fmt.Errorf("user and session repositories not configured")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrInvalidCredentials
	}

	session, err := s.sessions.GetSession(ctx, s.digest(token))
	if err != nil {
		if isNotFoundError(err) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, err
	}

	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		return Principal{}, ErrSessionRevoked
	}
	if !session.ExpiresAt.After(s.now()) {
		return Principal{}, ErrSessionExpired
	}

	account, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if isNotFoundError(err) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, err
	}
	if account.Disabled {
		return Principal{}, ErrAccountDisabled
	}

	return Principal{
		UserID:  account.ID,
		Email:   account.Email,
		IsAdmin: account.IsAdmin,
	}, nil
}

// RevokeSession invalidates an existing session token.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidCredentials
	}

	logger := s.loggerWith(ctx, "revoke_session")

	if err := s.sessions.RevokeSession(ctx, s.digest(token), s.now()); err != nil {
		if isNotFoundError(err) {
			return ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "session revoked")
	return nil
}

func (s *AuthService) digest(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
