package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/personalab/internal/model"
	"github.com/MikeSquared-Agency/personalab/internal/store"
)

// TranscriptRequest appends a chunk of transcript text.
type TranscriptRequest struct {
	Text string `json:"text"`
}

// SurveyRequest accepts either a single response or a batch.
type SurveyRequest struct {
	Question  string                 `json:"question,omitempty"`
	Answer    string                 `json:"answer,omitempty"`
	Responses []model.SurveyResponse `json:"responses,omitempty"`
}

// FinalizeResponse is returned by POST /api/v1/runs/{runID}/finalize.
type FinalizeResponse struct {
	Success   bool   `json:"success"`
	RunID     string `json:"run_id"`
	PersonaID string `json:"persona_id"`
}

// createRun handles POST /api/v1/runs. The run itself materializes on first write.
func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"run_id": uuid.NewString()})
}

// getRun handles GET /api/v1/runs/{runID}
func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(chi.URLParam(r, "runID"))
	if errors.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to fetch run", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// logEvents handles POST /api/v1/runs/{runID}/events with one event or an array.
func (s *Server) logEvents(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	userID := userFromContext(r.Context())

	events, err := decodeEvents(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, evt := range events {
		if err := s.runs.LogEvent(runID, userID, evt); err != nil {
			s.logger.Error("failed to log event", "run_id", runID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to log event")
			return
		}
		s.countWrite("event")
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "logged": len(events)})
}

// appendTranscript handles POST /api/v1/runs/{runID}/transcript
func (s *Server) appendTranscript(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	var req TranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	if err := s.runs.AppendTranscript(runID, userFromContext(r.Context()), req.Text); err != nil {
		s.logger.Error("failed to append transcript", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to append transcript")
		return
	}
	s.countWrite("transcript")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// addSurvey handles POST /api/v1/runs/{runID}/survey
func (s *Server) addSurvey(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	var req SurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	responses := req.Responses
	if req.Question != "" || req.Answer != "" {
		responses = append(responses, model.SurveyResponse{Question: req.Question, Answer: req.Answer})
	}
	if len(responses) == 0 {
		writeError(w, http.StatusBadRequest, "no survey responses in request")
		return
	}

	userID := userFromContext(r.Context())
	for _, resp := range responses {
		if err := s.runs.AddSurveyResponse(runID, userID, resp); err != nil {
			s.logger.Error("failed to add survey response", "run_id", runID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to add survey response")
			return
		}
		s.countWrite("survey")
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "recorded": len(responses)})
}

// finalizeRun handles POST /api/v1/runs/{runID}/finalize
func (s *Server) finalizeRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	p, err := s.builder.Finalize(r.Context(), runID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		s.logger.Error("failed to build persona", "run_id", runID, "error", err)
		writeError(w, status, "failed to build persona")
		return
	}

	writeJSON(w, http.StatusOK, FinalizeResponse{
		Success:   true,
		RunID:     runID,
		PersonaID: p.ID,
	})
}

func decodeEvents(r *http.Request) ([]model.Event, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}

	var events []model.Event
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("invalid events: %v", err)
		}
	} else {
		var evt model.Event
		if err := json.Unmarshal(trimmed, &evt); err != nil {
			return nil, fmt.Errorf("invalid event: %v", err)
		}
		events = append(events, evt)
	}

	for i, evt := range events {
		if evt.Name == "" {
			return nil, fmt.Errorf("event %d: name is required", i)
		}
	}
	return events, nil
}

func (s *Server) countWrite(kind string) {
	if s.metrics != nil {
		s.metrics.RunWrites.WithLabelValues(kind).Inc()
	}
}
