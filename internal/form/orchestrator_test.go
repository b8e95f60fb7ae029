package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studio-booking/internal/application"
)

func completeQuery(start string) application.AvailabilityQuery {
	return application.AvailabilityQuery{
		Studio:   "Estudio 170",
		Date:     "2026-03-10",
		Subject:  "Matemática",
		Proposal: "Gravação",
		Start:    start,
	}
}

// resultsCollector records every published result for later inspection.
type resultsCollector struct {
	mu      sync.Mutex
	results []Result
}

func (c *resultsCollector) observe(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

func (c *resultsCollector) waitFor(t *testing.T, state State) Result {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		for _, result := range c.results {
			if result.State == state {
				c.mu.Unlock()
				return result
			}
		}
		c.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no result with state %d was published", state)
	return Result{}
}

func (c *resultsCollector) readyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, result := range c.results {
		if result.State == StateReady {
			count++
		}
	}
	return count
}

func TestEvaluatesAfterDebounce(t *testing.T) {
	t.Parallel()

	collector := &resultsCollector{}
	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		return application.Availability{Start: 840, End: 900, Technicians: []string{"Bruno"}}, nil
	}
	o := NewOrchestrator(evaluate, 5*time.Millisecond, collector.observe, nil)
	defer o.Close()

	o.SetDraft(context.Background(), completeQuery("14:00"))

	ready := collector.waitFor(t, StateReady)
	assert.Equal(t, 840, ready.Availability.Start)
	assert.Equal(t, []string{"Bruno"}, ready.Availability.Technicians)
}

func TestIncompleteDraftClearsState(t *testing.T) {
	t.Parallel()

	collector := &resultsCollector{}
	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		return application.Availability{Start: 840, End: 900}, nil
	}
	o := NewOrchestrator(evaluate, 5*time.Millisecond, collector.observe, nil)
	defer o.Close()

	o.SetDraft(context.Background(), completeQuery("14:00"))
	collector.waitFor(t, StateReady)

	incomplete := completeQuery("14:00")
	incomplete.Subject = ""
	o.SetDraft(context.Background(), incomplete)

	snapshot := o.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Zero(t, snapshot.Availability.End)
}

func TestStaleResultDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-release
			return application.Availability{Start: 1, End: 2}, nil
		}
		return application.Availability{Start: 840, End: 900}, nil
	}

	collector := &resultsCollector{}
	o := NewOrchestrator(evaluate, 2*time.Millisecond, collector.observe, nil)
	defer o.Close()

	o.SetDraft(context.Background(), completeQuery("09:00"))

	// Wait for the first evaluation to start, then supersede it.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, 2*time.Second, time.Millisecond)

	o.SetDraft(context.Background(), completeQuery("14:00"))
	ready := collector.waitFor(t, StateReady)
	close(release)

	assert.Equal(t, 840, ready.Availability.Start, "only the result of the newest draft may be published")

	// The released first evaluation must not be published afterwards.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, collector.readyCount())
	assert.Equal(t, 840, o.Snapshot().Availability.Start)
}

func TestRapidChangesCollapseToOneEvaluation(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0
	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return application.Availability{Start: 840, End: 900}, nil
	}

	collector := &resultsCollector{}
	o := NewOrchestrator(evaluate, 30*time.Millisecond, collector.observe, nil)
	defer o.Close()

	for _, start := range []string{"09:00", "10:00", "11:00", "14:00"} {
		o.SetDraft(context.Background(), completeQuery(start))
	}

	collector.waitFor(t, StateReady)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "debounce must collapse rapid changes into one evaluation")
}

func TestEvaluationErrorPublished(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("no technician available")
	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		return application.Availability{}, wantErr
	}

	collector := &resultsCollector{}
	o := NewOrchestrator(evaluate, 2*time.Millisecond, collector.observe, nil)
	defer o.Close()

	o.SetDraft(context.Background(), completeQuery("14:00"))
	failed := collector.waitFor(t, StateFailed)
	assert.ErrorIs(t, failed.Err, wantErr)
}

func TestSubmitBypassesDebounce(t *testing.T) {
	t.Parallel()

	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		return application.Availability{Start: 840, End: 900}, nil
	}
	o := NewOrchestrator(evaluate, time.Hour, nil, nil)
	defer o.Close()

	o.SetDraft(context.Background(), completeQuery("14:00"))

	availability, err := o.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 900, availability.End)
}

func TestSubmitIncompleteDraft(t *testing.T) {
	t.Parallel()

	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		return application.Availability{}, nil
	}
	o := NewOrchestrator(evaluate, time.Hour, nil, nil)
	defer o.Close()

	query := completeQuery("14:00")
	query.Proposal = ""
	o.SetDraft(context.Background(), query)

	_, err := o.Submit(context.Background())
	assert.ErrorIs(t, err, ErrIncompleteDraft)
}

func TestSubmitReturnsEvaluationError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("conflict")
	evaluate := func(ctx context.Context, query application.AvailabilityQuery) (application.Availability, error) {
		return application.Availability{}, wantErr
	}
	o := NewOrchestrator(evaluate, time.Hour, nil, nil)
	defer o.Close()

	o.SetDraft(context.Background(), completeQuery("14:00"))

	_, err := o.Submit(context.Background())
	assert.ErrorIs(t, err, wantErr)
}
