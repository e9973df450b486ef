package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/personalab/internal/model"
)

// EventRule adds Weight to Trait when more than MinCount events named Event were logged.
type EventRule struct {
	Event    string      `yaml:"event"`
	MinCount int         `yaml:"min_count"`
	Trait    model.Trait `yaml:"trait"`
	Weight   float64     `yaml:"weight"`
}

// KeywordRule adds Weight to Trait once if any keyword occurs in the lower-cased transcript.
type KeywordRule struct {
	Keywords []string    `yaml:"keywords"`
	Trait    model.Trait `yaml:"trait"`
	Weight   float64     `yaml:"weight"`
}

// SurveyRule adds Weight to Trait for each response whose question and answer
// contain the given fragments.
type SurveyRule struct {
	QuestionContains string      `yaml:"question_contains"`
	AnswerContains   string      `yaml:"answer_contains"`
	Trait            model.Trait `yaml:"trait"`
	Weight           float64     `yaml:"weight"`
}

// Rules is the tunable heuristic table the scorer runs over.
type Rules struct {
	EventThresholds    []EventRule   `yaml:"event_thresholds"`
	TranscriptKeywords []KeywordRule `yaml:"transcript_keywords"`
	SurveyRules        []SurveyRule  `yaml:"survey_rules"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() *Rules {
	return &Rules{
		EventThresholds: []EventRule{
			{Event: "click", MinCount: 10, Trait: model.TraitPractical, Weight: 0.3},
			{Event: "hover", MinCount: 5, Trait: model.TraitCautious, Weight: 0.2},
			{Event: "scroll", MinCount: 3, Trait: model.TraitThorough, Weight: 0.2},
			{Event: "keypress", MinCount: 20, Trait: model.TraitEfficient, Weight: 0.3},
		},
		TranscriptKeywords: []KeywordRule{
			{Keywords: []string{"think", "analyze"}, Trait: model.TraitAnalytical, Weight: 0.4},
			{Keywords: []string{"creative", "imagine"}, Trait: model.TraitCreative, Weight: 0.4},
			{Keywords: []string{"people", "team"}, Trait: model.TraitSocial, Weight: 0.4},
			{Keywords: []string{"confident", "sure"}, Trait: model.TraitConfident, Weight: 0.3},
		},
		SurveyRules: []SurveyRule{
			{QuestionContains: "confidence", AnswerContains: "high", Trait: model.TraitConfident, Weight: 0.2},
			{QuestionContains: "preference", AnswerContains: "creative", Trait: model.TraitCreative, Weight: 0.2},
		},
	}
}

// LoadRules reads a YAML rule table. Sections missing from the file keep
// their built-in defaults; a section that is present replaces the default list.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Validate rejects rules naming unknown traits or carrying negative or
// non-finite weights.
func (r *Rules) Validate() error {
	for i, rule := range r.EventThresholds {
		if rule.Event == "" {
			return fmt.Errorf("event_thresholds[%d]: event is required", i)
		}
		if err := checkTarget(rule.Trait, rule.Weight); err != nil {
			return fmt.Errorf("event_thresholds[%d]: %w", i, err)
		}
	}
	for i, rule := range r.TranscriptKeywords {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("transcript_keywords[%d]: at least one keyword is required", i)
		}
		if err := checkTarget(rule.Trait, rule.Weight); err != nil {
			return fmt.Errorf("transcript_keywords[%d]: %w", i, err)
		}
	}
	for i, rule := range r.SurveyRules {
		if rule.QuestionContains == "" || rule.AnswerContains == "" {
			return fmt.Errorf("survey_rules[%d]: question_contains and answer_contains are required", i)
		}
		if err := checkTarget(rule.Trait, rule.Weight); err != nil {
			return fmt.Errorf("survey_rules[%d]: %w", i, err)
		}
	}
	return nil
}

func checkTarget(trait model.Trait, weight float64) error {
	if !model.IsTrait(trait) {
		return fmt.Errorf("unknown trait %q", trait)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("weight must be finite, got %g", weight)
	}
	if weight < 0 {
		return fmt.Errorf("negative weight %g", weight)
	}
	return nil
}
