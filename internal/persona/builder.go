// Package persona turns a finalized test run into a persisted persona:
// trait scoring, pain point and quote extraction, naming and storage.
package persona

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/personalab/internal/extractor"
	"github.com/MikeSquared-Agency/personalab/internal/hermes"
	"github.com/MikeSquared-Agency/personalab/internal/metrics"
	"github.com/MikeSquared-Agency/personalab/internal/model"
	"github.com/MikeSquared-Agency/personalab/internal/scoring"
	"github.com/MikeSquared-Agency/personalab/internal/store"
)

// Publisher announces stored personas. *hermes.Client satisfies it.
type Publisher interface {
	PublishPersonaCreated(evt hermes.PersonaCreated) error
}

// Builder assembles personas from runs held in the run store.
type Builder struct {
	runs      store.Runs
	personas  store.Personas
	rules     *scoring.Rules
	namer     *Namer
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// New wires a Builder. pub and m may be nil.
func New(runs store.Runs, personas store.Personas, rules *scoring.Rules, namer *Namer, pub Publisher, m *metrics.Metrics, logger *slog.Logger) *Builder {
	if rules == nil {
		rules = scoring.DefaultRules()
	}
	return &Builder{
		runs:      runs,
		personas:  personas,
		rules:     rules,
		namer:     namer,
		publisher: pub,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Derive computes the persona fields for run without persisting anything.
func Derive(rules *scoring.Rules, namer *Namer, run model.TestRun) model.Persona {
	scores := scoring.ComputeTraitScores(rules, run.Events, run.Transcript, run.SurveyResponses)
	return model.Persona{
		UserID:      run.UserID,
		RunID:       run.ID,
		Name:        namer.Name(scores),
		TraitScores: scores,
		PainPoints:  extractor.ExtractPainPoints(run.Transcript),
		Quotes:      extractor.ExtractQuotes(run.Transcript),
	}
}

// Finalize closes the run and builds a persona from it.
func (b *Builder) Finalize(ctx context.Context, runID string) (model.Persona, error) {
	if _, err := b.runs.Finalize(runID); err != nil {
		b.countFailure(err)
		return model.Persona{}, fmt.Errorf("finalize run %s: %w", runID, err)
	}
	return b.BuildPersona(ctx, runID)
}

// BuildPersona scores the run and stores a new persona. Every call creates a
// new record; nothing is stored when the run is missing.
func (b *Builder) BuildPersona(ctx context.Context, runID string) (model.Persona, error) {
	if err := ctx.Err(); err != nil {
		return model.Persona{}, err
	}
	start := time.Now()

	run, err := b.runs.Get(runID)
	if err != nil {
		b.countFailure(err)
		return model.Persona{}, fmt.Errorf("load run %s: %w", runID, err)
	}

	p := Derive(b.rules, b.namer, run)
	now := b.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	p, err = b.personas.Create(p)
	if err != nil {
		b.countFailure(err)
		return model.Persona{}, fmt.Errorf("store persona for run %s: %w", runID, err)
	}

	top := TopTrait(p.TraitScores)
	if b.metrics != nil {
		b.metrics.PersonasBuilt.Inc()
		b.metrics.TopTraits.WithLabelValues(string(top)).Inc()
		b.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	}

	b.logger.Info("persona built",
		"persona_id", p.ID,
		"run_id", runID,
		"user_id", p.UserID,
		"top_trait", string(top),
		"pain_points", len(p.PainPoints),
		"quotes", len(p.Quotes),
	)

	if b.publisher != nil {
		if err := b.publisher.PublishPersonaCreated(hermes.PersonaCreated{
			PersonaID: p.ID,
			UserID:    p.UserID,
			RunID:     p.RunID,
			Name:      p.Name,
			TopTrait:  string(top),
			CreatedAt: p.CreatedAt,
		}); err != nil {
			b.logger.Warn("failed to publish persona created", "persona_id", p.ID, "error", err)
		}
	}

	return p, nil
}

func (b *Builder) countFailure(err error) {
	if b.metrics == nil {
		return
	}
	reason := "internal"
	if errors.Is(err, store.ErrRunNotFound) {
		reason = "run_not_found"
	}
	b.metrics.BuildFailures.WithLabelValues(reason).Inc()
}
