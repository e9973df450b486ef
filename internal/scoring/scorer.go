package scoring

import (
	"math"
	"strings"

	"github.com/MikeSquared-Agency/personalab/internal/model"
)

// ComputeTraitScores maps a run's events, transcript and survey answers to a
// score for every trait. Contributions are purely additive and the result is
// clamped into [0, 1]. A nil rules table uses DefaultRules. Rules targeting a
// trait outside model.AllTraits are ignored.
func ComputeTraitScores(rules *Rules, events []model.Event, transcript string, survey []model.SurveyResponse) model.TraitScores {
	if rules == nil {
		rules = DefaultRules()
	}

	scores := make(model.TraitScores, len(model.AllTraits))
	for _, t := range model.AllTraits {
		scores[t] = 0
	}

	counts := CountEvents(events)
	for _, rule := range rules.EventThresholds {
		if counts[rule.Event] > rule.MinCount {
			add(scores, rule.Trait, rule.Weight)
		}
	}

	text := strings.ToLower(transcript)
	for _, rule := range rules.TranscriptKeywords {
		if containsAny(text, rule.Keywords) {
			add(scores, rule.Trait, rule.Weight)
		}
	}

	for _, resp := range survey {
		q := strings.ToLower(resp.Question)
		a := strings.ToLower(resp.Answer)
		for _, rule := range rules.SurveyRules {
			if strings.Contains(q, strings.ToLower(rule.QuestionContains)) &&
				strings.Contains(a, strings.ToLower(rule.AnswerContains)) {
				add(scores, rule.Trait, rule.Weight)
			}
		}
	}

	for t, v := range scores {
		scores[t] = clamp(v)
	}
	return scores
}

// CountEvents tallies events by name.
func CountEvents(events []model.Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Name]++
	}
	return counts
}

// add only touches traits already present, so the key set stays fixed.
func add(scores model.TraitScores, trait model.Trait, weight float64) {
	if _, ok := scores[trait]; ok {
		scores[trait] += weight
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if math.IsNaN(score) || score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
