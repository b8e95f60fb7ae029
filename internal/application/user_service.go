package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService manages accounts. Creation and mutation are restricted to
// admins; the bootstrap path in main creates the first admin directly.
type UserService struct {
	users        persistence.UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for account operations.
func NewUserService(users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		hashPassword: HashPassword,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

// CreateUser registers a new account.
func (s *UserService) CreateUser(ctx context.Context, principal Principal, input UserInput) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))

	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if !strings.Contains(email, "@") {
		vErr.add("email", "email must be valid")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}
	if len(input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	createdAt := s.now()
	record := persistence.User{
		ID:           s.idGenerator(),
		Email:        email,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		IsAdmin:      input.IsAdmin,
		PasswordHash: hash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := s.users.CreateUser(ctx, record); err != nil {
		return User{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "user", "create").InfoContext(ctx, "user created",
		"user_id", record.ID, "is_admin", record.IsAdmin)

	return toUser(record), nil
}

// GetUser fetches an account. Non-admins may only query themselves.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin && principal.UserID != userID {
		return User{}, ErrUnauthorized
	}
	record, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapBookingRepoError(err)
	}
	return toUser(record), nil
}

// ListUsers enumerates accounts ordered by email. Restricted to admins.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}
	records, err := s.users.ListUsers(ctx)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}
	results := make([]User, 0, len(records))
	for _, record := range records {
		results = append(results, toUser(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Email < results[j].Email
	})
	return results, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if principal.UserID == userID {
		vErr := &ValidationError{}
		vErr.add("user_id", "cannot delete own account")
		return vErr
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return mapBookingRepoError(err)
	}
	serviceLogger(ctx, s.logger, "user", "delete").InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}

func toUser(record persistence.User) User {
	return User{
		ID:          record.ID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		IsAdmin:     record.IsAdmin,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
