package store

import (
	"slices"
	"strconv"
	"sync"

	"github.com/MikeSquared-Agency/personalab/internal/model"
)

// MemoryPersonas stores personas in creation order with sequential ids.
type MemoryPersonas struct {
	mu       sync.RWMutex
	nextID   int
	order    []string
	personas map[string]model.Persona
}

func NewMemoryPersonas() *MemoryPersonas {
	return &MemoryPersonas{
		nextID:   1,
		personas: make(map[string]model.Persona),
	}
}

// Create assigns the next sequential id and stores p.
func (s *MemoryPersonas) Create(p model.Persona) (model.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = strconv.Itoa(s.nextID)
	s.nextID++
	p = copyPersona(p)
	s.personas[p.ID] = p
	s.order = append(s.order, p.ID)
	return copyPersona(p), nil
}

func (s *MemoryPersonas) Get(id string) (model.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.personas[id]
	if !ok {
		return model.Persona{}, ErrPersonaNotFound
	}
	return copyPersona(p), nil
}

// ListByUser returns the user's personas oldest first.
func (s *MemoryPersonas) ListByUser(userID string) ([]model.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Persona{}
	for _, id := range s.order {
		if p := s.personas[id]; p.UserID == userID {
			out = append(out, copyPersona(p))
		}
	}
	return out, nil
}

// Latest returns the user's most recently created persona. Ids are assigned
// in creation order, so the last match wins ties on CreatedAt.
func (s *MemoryPersonas) Latest(userID string) (model.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest model.Persona
		found  bool
	)
	for _, id := range s.order {
		p := s.personas[id]
		if p.UserID != userID {
			continue
		}
		if !found || !p.CreatedAt.Before(latest.CreatedAt) {
			latest = p
			found = true
		}
	}
	if !found {
		return model.Persona{}, ErrPersonaNotFound
	}
	return copyPersona(latest), nil
}

// Update replaces the stored persona with the same id. CreatedAt is preserved.
func (s *MemoryPersonas) Update(p model.Persona) (model.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.personas[p.ID]
	if !ok {
		return model.Persona{}, ErrPersonaNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p = copyPersona(p)
	s.personas[p.ID] = p
	return copyPersona(p), nil
}

func (s *MemoryPersonas) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.personas)
}

func copyPersona(p model.Persona) model.Persona {
	scores := make(model.TraitScores, len(p.TraitScores))
	for k, v := range p.TraitScores {
		scores[k] = v
	}
	p.TraitScores = scores
	p.PainPoints = slices.Clone(p.PainPoints)
	p.Quotes = slices.Clone(p.Quotes)
	return p
}
