package hermes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonaCreatedParsing(t *testing.T) {
	raw := `{
		"persona_id": "7",
		"user_id": "user-42",
		"run_id": "run-abc",
		"name": "Riley the thorough",
		"top_trait": "Thorough",
		"created_at": "2025-05-01T10:00:00Z"
	}`

	var evt PersonaCreated
	require.NoError(t, json.Unmarshal([]byte(raw), &evt))

	assert.Equal(t, "7", evt.PersonaID)
	assert.Equal(t, "Thorough", evt.TopTrait)
	assert.True(t, evt.CreatedAt.Equal(time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestSubjectsShareNamespace(t *testing.T) {
	for _, subject := range []string{
		SubjectRunEvent, SubjectRunTranscript, SubjectRunSurvey,
		SubjectRunFinalize, SubjectPersonaCreated, SubjectRegistered,
	} {
		assert.Regexp(t, `^personalab\.`, subject)
	}
}

func TestRunHandlersBySubject(t *testing.T) {
	var got []string
	h := RunHandlers{
		Event:    func(subject string, _ []byte) { got = append(got, "event:"+subject) },
		Finalize: func(subject string, _ []byte) { got = append(got, "finalize:"+subject) },
	}

	for _, route := range h.bySubject() {
		if route.handler != nil {
			route.handler(route.subject, nil)
		}
	}

	assert.Equal(t, []string{
		"event:" + SubjectRunEvent,
		"finalize:" + SubjectRunFinalize,
	}, got)
}
