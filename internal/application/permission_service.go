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

// PermissionService manages explicit edit/cancel grants. Only admins may
// read or change grants of other users; any user may read their own.
type PermissionService struct {
	permissions persistence.PermissionRepository
	now         func() time.Time
	logger      *slog.Logger
}

// NewPermissionService wires dependencies for permission operations.
func NewPermissionService(permissions persistence.PermissionRepository, now func() time.Time, logger *slog.Logger) *PermissionService {
	if now == nil {
		now = time.Now
	}
	return &PermissionService{
		permissions: permissions,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// UpsertPermission creates or replaces the grants of a user.
func (s *PermissionService) UpsertPermission(ctx context.Context, principal Principal, input PermissionInput) (Permission, error) {
	if s == nil || s.permissions == nil {
		return Permission{}, fmt.Errorf("permission repository not configured")
	}
	if !principal.IsAdmin {
		return Permission{}, ErrUnauthorized
	}

	if strings.TrimSpace(input.UserID) == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return Permission{}, vErr
	}

	record := persistence.UserPermission{
		UserID:      input.UserID,
		DisplayName: strings.TrimSpace(input.DisplayName),
		CanEdit:     input.CanEdit,
		CanCancel:   input.CanCancel,
		UpdatedAt:   s.now(),
	}
	if err := s.permissions.UpsertPermission(ctx, record); err != nil {
		return Permission{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "permission", "upsert").InfoContext(ctx, "permission upserted",
		"user_id", record.UserID, "can_edit", record.CanEdit, "can_cancel", record.CanCancel)

	return toPermission(record), nil
}

// GetPermission returns the grants of a user. Non-admins may only query
// themselves; a missing record means no grants.
func (s *PermissionService) GetPermission(ctx context.Context, principal Principal, userID string) (Permission, error) {
	if s == nil || s.permissions == nil {
		return Permission{}, fmt.Errorf("permission repository not configured")
	}
	if !principal.IsAdmin && principal.UserID != userID {
		return Permission{}, ErrUnauthorized
	}

	record, err := s.permissions.GetPermission(ctx, userID)
	if err != nil {
		if isNotFoundError(err) {
			return Permission{UserID: userID}, nil
		}
		return Permission{}, mapBookingRepoError(err)
	}
	return toPermission(record), nil
}

// ListPermissions enumerates all grants, ordered by user id.
func (s *PermissionService) ListPermissions(ctx context.Context, principal Principal) ([]Permission, error) {
	if s == nil || s.permissions == nil {
		return nil, fmt.Errorf("permission repository not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	records, err := s.permissions.ListPermissions(ctx)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}
	results := make([]Permission, 0, len(records))
	for _, record := range records {
		results = append(results, toPermission(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UserID < results[j].UserID
	})
	return results, nil
}

// DeletePermission revokes all grants of a user.
func (s *PermissionService) DeletePermission(ctx context.Context, principal Principal, userID string) error {
	if s == nil || s.permissions == nil {
		return fmt.Errorf("permission repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.permissions.DeletePermission(ctx, userID); err != nil {
		return mapBookingRepoError(err)
	}
	serviceLogger(ctx, s.logger, "permission", "delete").InfoContext(ctx, "permission deleted", "user_id", userID)
	return nil
}

func toPermission(record persistence.UserPermission) Permission {
	return Permission{
		UserID:      record.UserID,
		DisplayName: record.DisplayName,
		CanEdit:     record.CanEdit,
		CanCancel:   record.CanCancel,
		UpdatedAt:   record.UpdatedAt,
	}
}
