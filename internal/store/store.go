// Package store holds test runs and personas. The in-memory implementations
// keep data for the lifetime of the process only.
package store

import (
	"errors"

	"github.com/MikeSquared-Agency/personalab/internal/model"
)

var (
	ErrRunNotFound     = errors.New("test run not found")
	ErrPersonaNotFound = errors.New("persona not found")
)

// Runs accumulates session data per run id. Every write creates the run on
// first touch.
type Runs interface {
	LogEvent(runID, userID string, evt model.Event) error
	AppendTranscript(runID, userID, text string) error
	AddSurveyResponse(runID, userID string, resp model.SurveyResponse) error
	Finalize(runID string) (model.TestRun, error)
	Get(runID string) (model.TestRun, error)
}

// Personas is an append-mostly collection of derived personas.
type Personas interface {
	Create(p model.Persona) (model.Persona, error)
	Get(id string) (model.Persona, error)
	ListByUser(userID string) ([]model.Persona, error)
	Latest(userID string) (model.Persona, error)
	Update(p model.Persona) (model.Persona, error)
	Count() int
}
