package persona

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/personalab/internal/hermes"
	"github.com/MikeSquared-Agency/personalab/internal/metrics"
	"github.com/MikeSquared-Agency/personalab/internal/model"
	"github.com/MikeSquared-Agency/personalab/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePublisher struct {
	mu     sync.Mutex
	events []hermes.PersonaCreated
	err    error
}

func (f *fakePublisher) PublishPersonaCreated(evt hermes.PersonaCreated) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return f.err
}

type fixture struct {
	runs     *store.MemoryRuns
	personas *store.MemoryPersonas
	pub      *fakePublisher
	metrics  *metrics.Metrics
	builder  *Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		runs:     store.NewMemoryRuns(),
		personas: store.NewMemoryPersonas(),
		pub:      &fakePublisher{},
		metrics:  metrics.New(),
	}
	f.builder = New(f.runs, f.personas, nil, NewNamer(1), f.pub, f.metrics, discardLogger())
	f.builder.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) seedRun(t *testing.T, runID string) {
	t.Helper()
	for i := 0; i < 11; i++ {
		require.NoError(t, f.runs.LogEvent(runID, "user-1", model.Event{Name: "click"}))
	}
	require.NoError(t, f.runs.AppendTranscript(runID, "user-1", "I think this is hard and I feel confused."))
	require.NoError(t, f.runs.AddSurveyResponse(runID, "user-1", model.SurveyResponse{Question: "Your confidence?", Answer: "High"}))
}

func TestBuildPersona(t *testing.T) {
	f := newFixture(t)
	f.seedRun(t, "run-1")

	p, err := f.builder.BuildPersona(context.Background(), "run-1")
	require.NoError(t, err)

	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "run-1", p.RunID)
	assert.InDelta(t, 0.4, p.TraitScores[model.TraitAnalytical], 0.001)
	assert.InDelta(t, 0.3, p.TraitScores[model.TraitPractical], 0.001)
	assert.InDelta(t, 0.2, p.TraitScores[model.TraitConfident], 0.001)
	assert.Equal(t, []string{"I think this is hard and I feel confused"}, p.PainPoints)
	assert.Equal(t, []string{"I think this is hard and I feel confused"}, p.Quotes)
	assert.Contains(t, p.Name, " the analytical")
	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	stored, err := f.personas.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	require.Len(t, f.pub.events, 1)
	evt := f.pub.events[0]
	assert.Equal(t, p.ID, evt.PersonaID)
	assert.Equal(t, "Analytical", evt.TopTrait)
	assert.Equal(t, "run-1", evt.RunID)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PersonasBuilt))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TopTraits.WithLabelValues("Analytical")))
}

func TestBuildPersona_TwiceGivesDistinctRecordsSameScores(t *testing.T) {
	f := newFixture(t)
	f.seedRun(t, "run-1")
	_, err := f.runs.Finalize("run-1")
	require.NoError(t, err)

	a, err := f.builder.BuildPersona(context.Background(), "run-1")
	require.NoError(t, err)
	b, err := f.builder.BuildPersona(context.Background(), "run-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.TraitScores, b.TraitScores)
	assert.Equal(t, a.PainPoints, b.PainPoints)
	assert.Equal(t, a.Quotes, b.Quotes)
	assert.Equal(t, 2, f.personas.Count())
}

func TestBuildPersona_UnknownRun(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.BuildPersona(context.Background(), "missing")

	require.ErrorIs(t, err, store.ErrRunNotFound)
	assert.Equal(t, 0, f.personas.Count())
	assert.Empty(t, f.pub.events)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.BuildFailures.WithLabelValues("run_not_found")))
}

func TestBuildPersona_EmptyRun(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.runs.AppendTranscript("empty", "user-2", ""))

	p, err := f.builder.BuildPersona(context.Background(), "empty")
	require.NoError(t, err)

	for _, trait := range model.AllTraits {
		assert.Zero(t, p.TraitScores[trait], "trait %s", trait)
	}
	assert.NotNil(t, p.PainPoints)
	assert.Empty(t, p.PainPoints)
	assert.NotNil(t, p.Quotes)
	assert.Empty(t, p.Quotes)
	assert.Contains(t, p.Name, " the analytical")
}

func TestBuildPersona_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("nats down")
	f.seedRun(t, "run-1")

	_, err := f.builder.BuildPersona(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, 1, f.personas.Count())
}

func TestBuildPersona_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.seedRun(t, "run-1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.builder.BuildPersona(ctx, "run-1")

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.personas.Count())
}

func TestBuildPersona_WithoutPublisherOrMetrics(t *testing.T) {
	runs := store.NewMemoryRuns()
	personas := store.NewMemoryPersonas()
	require.NoError(t, runs.AppendTranscript("r", "u", "The team loved it."))
	b := New(runs, personas, nil, NewNamer(5), nil, nil, discardLogger())

	p, err := b.BuildPersona(context.Background(), "r")
	require.NoError(t, err)
	assert.Contains(t, p.Name, " the social")
}

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	f.seedRun(t, "run-1")

	p, err := f.builder.Finalize(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", p.RunID)

	run, err := f.runs.Get("run-1")
	require.NoError(t, err)
	assert.True(t, run.Finalized)

	_, err = f.builder.Finalize(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrRunNotFound)
	assert.Equal(t, 1, f.personas.Count())
}

func TestDerive_DoesNotPersist(t *testing.T) {
	run := model.TestRun{
		ID:         "offline",
		UserID:     "u",
		Transcript: "I prefer the creative layout. Checkout was slow and annoying.",
	}

	p := Derive(nil, NewNamer(9), run)

	assert.Empty(t, p.ID)
	assert.Equal(t, "offline", p.RunID)
	assert.InDelta(t, 0.4, p.TraitScores[model.TraitCreative], 0.001)
	assert.Equal(t, []string{"Checkout was slow and annoying"}, p.PainPoints)
	assert.Equal(t, []string{"I prefer the creative layout"}, p.Quotes)
}
