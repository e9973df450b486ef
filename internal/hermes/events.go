package hermes

import "time"

// Subjects consumed and produced by personalab.
const (
	SubjectRunEvent       = "personalab.run.event"
	SubjectRunTranscript  = "personalab.run.transcript"
	SubjectRunSurvey      = "personalab.run.survey"
	SubjectRunFinalize    = "personalab.run.finalize"
	SubjectPersonaCreated = "personalab.persona.created"
	SubjectRegistered     = "personalab.agent.registered"
)

// Handler receives the raw payload of an inbound run message.
type Handler func(subject string, data []byte)

// RunHandlers routes each inbound run subject to its handler. Nil handlers
// are not subscribed.
type RunHandlers struct {
	Event      Handler
	Transcript Handler
	Survey     Handler
	Finalize   Handler
}

func (h RunHandlers) bySubject() []struct {
	subject string
	handler Handler
} {
	return []struct {
		subject string
		handler Handler
	}{
		{SubjectRunEvent, h.Event},
		{SubjectRunTranscript, h.Transcript},
		{SubjectRunSurvey, h.Survey},
		{SubjectRunFinalize, h.Finalize},
	}
}

// PersonaCreated is published after a persona is persisted.
type PersonaCreated struct {
	PersonaID string    `json:"persona_id"`
	UserID    string    `json:"user_id"`
	RunID     string    `json:"run_id"`
	Name      string    `json:"name"`
	TopTrait  string    `json:"top_trait"`
	CreatedAt time.Time `json:"created_at"`
}

// Registered announces a personalab instance on startup.
type Registered struct {
	Service   string    `json:"service"`
	Port      int       `json:"port"`
	Timestamp time.Time `json:"timestamp"`
}
