package model

import "time"

// Trait is one of the fixed personality-style labels a persona is scored on.
type Trait string

const (
	TraitAnalytical Trait = "Analytical"
	TraitCreative   Trait = "Creative"
	TraitSocial     Trait = "Social"
	TraitPractical  Trait = "Practical"
	TraitConfident  Trait = "Confident"
	TraitCautious   Trait = "Cautious"
	TraitEfficient  Trait = "Efficient"
	TraitThorough   Trait = "Thorough"
)

// AllTraits lists every trait in canonical order.
var AllTraits = []Trait{
	TraitAnalytical,
	TraitCreative,
	TraitSocial,
	TraitPractical,
	TraitConfident,
	TraitCautious,
	TraitEfficient,
	TraitThorough,
}

// IsTrait reports whether t is one of AllTraits.
func IsTrait(t Trait) bool {
	for _, known := range AllTraits {
		if known == t {
			return true
		}
	}
	return false
}

// TraitScores maps every trait to a strength in [0, 1].
type TraitScores map[Trait]float64

// Event is a single logged interaction from a usability test session.
type Event struct {
	Name      string         `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// SurveyResponse is one answered survey question.
type SurveyResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TestRun accumulates everything collected during one session before finalize.
type TestRun struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Events          []Event          `json:"events"`
	Transcript      string           `json:"transcript"`
	SurveyResponses []SurveyResponse `json:"survey_responses"`
	Finalized       bool             `json:"finalized"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Persona is the summary derived from a finalized test run.
type Persona struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	RunID       string      `json:"run_id"`
	Name        string      `json:"name"`
	TraitScores TraitScores `json:"trait_scores"`
	PainPoints  []string    `json:"pain_points"`
	Quotes      []string    `json:"quotes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
