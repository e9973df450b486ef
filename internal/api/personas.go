package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/personalab/internal/store"
)

// myPersona handles GET /api/v1/personas/me
func (s *Server) myPersona(w http.ResponseWriter, r *http.Request) {
	p, err := s.personas.Latest(userFromContext(r.Context()))
	if err != nil {
		s.personaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// listPersonas handles GET /api/v1/personas
func (s *Server) listPersonas(w http.ResponseWriter, r *http.Request) {
	list, err := s.personas.ListByUser(userFromContext(r.Context()))
	if err != nil {
		s.personaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"personas": list, "count": len(list)})
}

// getPersona handles GET /api/v1/personas/{personaID}
func (s *Server) getPersona(w http.ResponseWriter, r *http.Request) {
	p, err := s.personas.Get(chi.URLParam(r, "personaID"))
	if err != nil {
		s.personaError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) personaError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrPersonaNotFound) {
		writeError(w, http.StatusNotFound, "failed to fetch persona")
		return
	}
	s.logger.Error("failed to fetch persona", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to fetch persona")
}
