package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/persistence"
)

// DurationRuleService manages the (subject, proposal) duration table.
// Mutations are restricted to admins.
type DurationRuleService struct {
	rules       persistence.DurationRuleRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDurationRuleService wires dependencies for duration rule operations.
func NewDurationRuleService(rules persistence.DurationRuleRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DurationRuleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DurationRuleService{
		rules:       rules,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateDurationRule registers a duration for a (subject, proposal) pair.
func (s *DurationRuleService) CreateDurationRule(ctx context.Context, principal Principal, input DurationRuleInput) (DurationRule, error) {
	if s == nil || s.rules == nil {
		return DurationRule{}, fmt.Errorf("duration rule repository not configured")
	}
	if !principal.IsAdmin {
		return DurationRule{}, ErrUnauthorized
	}

	vErr := validateRuleInput(input)
	if vErr.HasErrors() {
		return DurationRule{}, vErr
	}

	createdAt := s.now()
	record := persistence.DurationRule{
		ID:        s.idGenerator(),
		Subject:   strings.TrimSpace(input.Subject),
		Proposal:  strings.TrimSpace(input.Proposal),
		Duration:  strings.TrimSpace(input.Duration),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := s.rules.CreateDurationRule(ctx, record); err != nil {
		return DurationRule{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "duration_rule", "create").InfoContext(ctx, "duration rule created",
		"rule_id", record.ID, "subject", record.Subject, "proposal", record.Proposal)

	return toDurationRule(record), nil
}

// UpdateDurationRule replaces the duration of an existing rule.
func (s *DurationRuleService) UpdateDurationRule(ctx context.Context, principal Principal, ruleID string, input DurationRuleInput) (DurationRule, error) {
	if s == nil || s.rules == nil {
		return DurationRule{}, fmt.Errorf("duration rule repository not configured")
	}
	if !principal.IsAdmin {
		return DurationRule{}, ErrUnauthorized
	}

	vErr := validateRuleInput(input)
	if vErr.HasErrors() {
		return DurationRule{}, vErr
	}

	record := persistence.DurationRule{
		ID:        ruleID,
		Subject:   strings.TrimSpace(input.Subject),
		Proposal:  strings.TrimSpace(input.Proposal),
		Duration:  strings.TrimSpace(input.Duration),
		UpdatedAt: s.now(),
	}
	if err := s.rules.UpdateDurationRule(ctx, record); err != nil {
		return DurationRule{}, mapBookingRepoError(err)
	}

	serviceLogger(ctx, s.logger, "duration_rule", "update").InfoContext(ctx, "duration rule updated", "rule_id", ruleID)

	return toDurationRule(record), nil
}

// DeleteDurationRule removes a rule.
func (s *DurationRuleService) DeleteDurationRule(ctx context.Context, principal Principal, ruleID string) error {
	if s == nil || s.rules == nil {
		return fmt.Errorf("duration rule repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.rules.DeleteDurationRule(ctx, ruleID); err != nil {
		return mapBookingRepoError(err)
	}
	serviceLogger(ctx, s.logger, "duration_rule", "delete").InfoContext(ctx, "duration rule deleted", "rule_id", ruleID)
	return nil
}

// ListDurationRules enumerates rules ordered by subject then proposal.
func (s *DurationRuleService) ListDurationRules(ctx context.Context) ([]DurationRule, error) {
	if s == nil || s.rules == nil {
		return nil, fmt.Errorf("duration rule repository not configured")
	}
	records, err := s.rules.ListDurationRules(ctx)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapBookingRepoError(err)
	}
	results := make([]DurationRule, 0, len(records))
	for _, record := range records {
		results = append(results, toDurationRule(record))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Subject != results[j].Subject {
			return results[i].Subject < results[j].Subject
		}
		return results[i].Proposal < results[j].Proposal
	})
	return results, nil
}

func validateRuleInput(input DurationRuleInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Subject) == "" {
		vErr.add("subject", "subject is required")
	}
	if strings.TrimSpace(input.Proposal) == "" {
		vErr.add("proposal", "proposal is required")
	}
	if minutes, ok := booking.ParseDuration(input.Duration); !ok {
		vErr.add("duration", "duration must be H:MM")
	} else if minutes == 0 {
		vErr.add("duration", "duration must be positive")
	}
	return vErr
}

func toDurationRule(record persistence.DurationRule) DurationRule {
	return DurationRule{
		ID:        record.ID,
		Subject:   record.Subject,
		Proposal:  record.Proposal,
		Duration:  record.Duration,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
