package sqlite

import (
	"context"

	"github.com/example/studio-booking/internal/persistence"
)

// DurationRuleRepository implements persistence.DurationRuleRepository on
// SQLite.
type DurationRuleRepository struct {
	pool *ConnectionPool
}

// NewDurationRuleRepository creates a SQLite-backed duration rule repository.
func NewDurationRuleRepository(pool *ConnectionPool) *DurationRuleRepository {
	return &DurationRuleRepository{pool: pool}
}

// CreateDurationRule inserts a rule. A rule already covering the same
// (subject, proposal) pair yields persistence.ErrDuplicate.
func (r *DurationRuleRepository) CreateDurationRule(ctx context.Context, rule persistence.DurationRule) error {
	const query = `
		INSERT INTO duration_rules (id, subject, proposal, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		rule.ID,
		rule.Subject,
		rule.Proposal,
		rule.Duration,
		formatTime(rule.CreatedAt),
		formatTime(rule.UpdatedAt),
	)
	return mapError(err)
}

// UpdateDurationRule rewrites a rule.
func (r *DurationRuleRepository) UpdateDurationRule(ctx context.Context, rule persistence.DurationRule) error {
	const query = `
		UPDATE duration_rules SET subject = ?, proposal = ?, duration = ?, updated_at = ? WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		rule.Subject,
		rule.Proposal,
		rule.Duration,
		formatTime(rule.UpdatedAt),
		rule.ID,
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
}

// DeleteDurationRule removes a rule by id.
func (r *DurationRuleRepository) DeleteDurationRule(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM duration_rules WHERE id = ?", id)
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

// ListDurationRules returns the full rule table ordered by subject and
// proposal.
func (r *DurationRuleRepository) ListDurationRules(ctx context.Context) ([]persistence.DurationRule, error) {
	const query = `
		SELECT id, subject, proposal, duration, created_at, updated_at
		FROM duration_rules ORDER BY subject, proposal
	`
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rules []persistence.DurationRule
	for rows.Next() {
		var (
			rule      persistence.DurationRule
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&rule.ID, &rule.Subject, &rule.Proposal, &rule.Duration, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if rule.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if rule.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, mapError(rows.Err())
}
