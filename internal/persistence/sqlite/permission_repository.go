package sqlite

import (
	"context"

	"github.com/example/studio-booking/internal/persistence"
)

// PermissionRepository implements persistence.PermissionRepository on SQLite.
type PermissionRepository struct {
	pool *ConnectionPool
}

// NewPermissionRepository creates a SQLite-backed permission repository.
func NewPermissionRepository(pool *ConnectionPool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

// UpsertPermission inserts or replaces the grants for a user.
func (r *PermissionRepository) UpsertPermission(ctx context.Context, permission persistence.UserPermission) error {
	const query = `
		INSERT INTO permissions (user_id, display_name, can_edit, can_cancel, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = excluded.display_name,
			can_edit = excluded.can_edit,
			can_cancel = excluded.can_cancel,
			updated_at = excluded.updated_at
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		permission.UserID,
		permission.DisplayName,
		boolToInt(permission.CanEdit),
		boolToInt(permission.CanCancel),
		formatTime(permission.UpdatedAt),
	)
	return mapError(err)
}

// GetPermission returns the grants for a user; ErrNotFound when none exist.
func (r *PermissionRepository) GetPermission(ctx context.Context, userID string) (persistence.UserPermission, error) {
	const query = `
		SELECT user_id, display_name, can_edit, can_cancel, updated_at
		FROM permissions WHERE user_id = ?
	`
	permission, err := scanPermission(r.pool.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return persistence.UserPermission{}, mapError(err)
	}
	return permission, nil
}

// ListPermissions returns all permission rows.
func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]persistence.UserPermission, error) {
	const query = `
		SELECT user_id, display_name, can_edit, can_cancel, updated_at
		FROM permissions ORDER BY display_name, user_id
	`
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var permissions []persistence.UserPermission
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, mapError(err)
		}
		permissions = append(permissions, permission)
	}
	return permissions, mapError(rows.Err())
}

// DeletePermission removes a user's grants.
func (r *PermissionRepository) DeletePermission(ctx context.Context, userID string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM permissions WHERE user_id = ?", userID)
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

func scanPermission(row rowScanner) (persistence.UserPermission, error) {
	var (
		permission persistence.UserPermission
		canEdit    int
		canCancel  int
		updatedAt  string
	)
	err := row.Scan(&permission.UserID, &permission.DisplayName, &canEdit, &canCancel, &updatedAt)
	if err != nil {
		return persistence.UserPermission{}, err
	}
	permission.CanEdit = canEdit != 0
	permission.CanCancel = canCancel != 0
	if permission.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.UserPermission{}, err
	}
	return permission, nil
}
