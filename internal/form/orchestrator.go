// Package form coordinates live evaluation of a booking draft: as the user
// fills in fields, evaluations are debounced and executed asynchronously,
// and only the result matching the newest draft is ever published.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/studio-booking/internal/application"
)

// DefaultDebounce is the quiet period after the last draft change before an
// evaluation fires.
const DefaultDebounce = 400 * time.Millisecond

// ErrIncompleteDraft is returned by Submit while required fields are missing.
var ErrIncompleteDraft = errors.New("form: draft is incomplete")

// State describes the evaluation lifecycle of the current draft.
type State int

const (
	// StateIdle means the draft is incomplete and nothing is derived.
	StateIdle State = iota
	// StatePending means a change was observed and the debounce timer is armed.
	StatePending
	// StateEvaluating means the evaluator is running for the current draft.
	StateEvaluating
	// StateReady means the current draft evaluated successfully.
	StateReady
	// StateFailed means the current draft evaluated to an error.
	StateFailed
)

// Result is a published evaluation outcome. Err is set only for StateFailed.
type Result struct {
	State        State
	Query        application.AvailabilityQuery
	Availability application.Availability
	Err          error
}

// EvaluateFunc runs the availability pipeline for a draft.
type EvaluateFunc func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error)

// Orchestrator debounces draft changes and publishes evaluation results.
// Each draft change advances a generation counter; results computed for an
// older generation are discarded, so a stale evaluation can never overwrite
// the outcome of a newer draft.
type Orchestrator struct {
	evaluate EvaluateFunc
	debounce time.Duration
	observer func(Result)
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	query      application.AvailabilityQuery
	result     Result
	closed     bool
}

// NewOrchestrator wires a draft evaluation pipeline. debounce <= 0 selects
// DefaultDebounce. observer, when non-nil, is invoked for every published
// result and may be called from the timer goroutine.
func NewOrchestrator(evaluate EvaluateFunc, debounce time.Duration, observer func(Result), logger *slog.Logger) *Orchestrator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		evaluate: evaluate,
		debounce: debounce,
		observer: observer,
		logger:   logger,
		result:   Result{State: StateIdle},
	}
}

// SetDraft records the latest draft contents. Incomplete drafts clear any
// derived state immediately; complete drafts arm the debounce timer.
func (o *Orchestrator) SetDraft(ctx context.Context, query application.AvailabilityQuery) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}

	o.generation++
	o.query = query
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}

	if !draftComplete(query) {
		result := Result{State: StateIdle, Query: query}
		o.result = result
		o.mu.Unlock()
		o.publish(result)
		return
	}

	generation := o.generation
	result := Result{State: StatePending, Query: query}
	o.result = result
	o.timer = time.AfterFunc(o.debounce, func() {
		o.fire(ctx, generation)
	})
	o.mu.Unlock()
	o.publish(result)
}

// fire runs the evaluator for the given generation, discarding the outcome
// if a newer draft arrived in the meantime.
func (o *Orchestrator) fire(ctx context.Context, generation uint64) {
	o.mu.Lock()
	if o.closed || generation != o.generation {
		o.mu.Unlock()
		return
	}
	query := o.query
	o.result = Result{State: StateEvaluating, Query: query}
	o.mu.Unlock()

	availability, err := o.evaluate(ctx, query)

	o.mu.Lock()
	if o.closed || generation != o.generation {
		o.mu.Unlock()
		o.logger.Debug("discarding stale evaluation", "generation", generation)
		return
	}
	result := Result{State: StateReady, Query: query, Availability: availability}
	if err != nil {
		result = Result{State: StateFailed, Query: query, Err: err}
	}
	o.result = result
	o.mu.Unlock()
	o.publish(result)
}

// Snapshot returns the most recently published result.
func (o *Orchestrator) Snapshot() Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Submit finalizes the current draft. A ready result for the current
// generation is returned as-is; otherwise the draft is evaluated
// synchronously, bypassing the debounce, so a user can never submit against
// stale derived state.
func (o *Orchestrator) Submit(ctx context.Context) (application.Availability, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return application.Availability{}, errors.New("form: orchestrator closed")
	}
	query := o.query
	if !draftComplete(query) {
		o.mu.Unlock()
		return application.Availability{}, ErrIncompleteDraft
	}
	if o.result.State == StateReady {
		availability := o.result.Availability
		o.mu.Unlock()
		return availability, nil
	}
	generation := o.generation
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()

	availability, err := o.evaluate(ctx, query)

	o.mu.Lock()
	current := generation == o.generation && !o.closed
	if current {
		result := Result{State: StateReady, Query: query, Availability: availability}
		if err != nil {
			result = Result{State: StateFailed, Query: query, Err: err}
		}
		o.result = result
	}
	o.mu.Unlock()

	if err != nil {
		return application.Availability{}, err
	}
	return availability, nil
}

// Close stops any pending evaluation. Further calls are no-ops.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *Orchestrator) publish(result Result) {
	if o.observer != nil {
		o.observer(result)
	}
}

func draftComplete(query application.AvailabilityQuery) bool {
	return strings.TrimSpace(query.Studio) != "" &&
		strings.TrimSpace(query.Date) != "" &&
		strings.TrimSpace(query.Subject) != "" &&
		strings.TrimSpace(query.Proposal) != "" &&
		strings.TrimSpace(query.Start) != ""
}
