package store

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/personalab/internal/model"
)

// MemoryRuns is a mutex-guarded map of test runs.
type MemoryRuns struct {
	mu   sync.Mutex
	runs map[string]*model.TestRun
	now  func() time.Time
}

func NewMemoryRuns() *MemoryRuns {
	return &MemoryRuns{
		runs: make(map[string]*model.TestRun),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// touch returns the run for runID, creating it if needed. Caller holds mu.
func (s *MemoryRuns) touch(runID, userID string) *model.TestRun {
	now := s.now()
	run, ok := s.runs[runID]
	if !ok {
		run = &model.TestRun{
			ID:        runID,
			UserID:    userID,
			CreatedAt: now,
		}
		s.runs[runID] = run
	}
	if run.UserID == "" {
		run.UserID = userID
	}
	run.UpdatedAt = now
	return run
}

func (s *MemoryRuns) LogEvent(runID, userID string, evt model.Event) error {
	if runID == "" {
		return fmt.Errorf("log event: run id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	run := s.touch(runID, userID)
	if evt.Timestamp.IsZero() {
		evt.Timestamp = run.UpdatedAt
	}
	run.Events = append(run.Events, evt)
	return nil
}

// AppendTranscript adds text to the run transcript, separating chunks with a space.
func (s *MemoryRuns) AppendTranscript(runID, userID, text string) error {
	if runID == "" {
		return fmt.Errorf("append transcript: run id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	run := s.touch(runID, userID)
	if text == "" {
		return nil
	}
	if run.Transcript != "" {
		run.Transcript += " "
	}
	run.Transcript += text
	return nil
}

func (s *MemoryRuns) AddSurveyResponse(runID, userID string, resp model.SurveyResponse) error {
	if runID == "" {
		return fmt.Errorf("add survey response: run id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	run := s.touch(runID, userID)
	run.SurveyResponses = append(run.SurveyResponses, resp)
	return nil
}

// Finalize marks the run finalized. Finalizing twice is not an error.
func (s *MemoryRuns) Finalize(runID string) (model.TestRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return model.TestRun{}, ErrRunNotFound
	}
	if !run.Finalized {
		run.Finalized = true
		run.UpdatedAt = s.now()
	}
	return copyRun(run), nil
}

func (s *MemoryRuns) Get(runID string) (model.TestRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return model.TestRun{}, ErrRunNotFound
	}
	return copyRun(run), nil
}

func copyRun(r *model.TestRun) model.TestRun {
	out := *r
	out.Events = make([]model.Event, len(r.Events))
	for i, e := range r.Events {
		e.Data = maps.Clone(e.Data)
		out.Events[i] = e
	}
	out.SurveyResponses = make([]model.SurveyResponse, len(r.SurveyResponses))
	copy(out.SurveyResponses, r.SurveyResponses)
	return out
}
