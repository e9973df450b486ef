package processor

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MikeSquared-Agency/personalab/internal/metrics"
	"github.com/MikeSquared-Agency/personalab/internal/model"
	"github.com/MikeSquared-Agency/personalab/internal/persona"
	"github.com/MikeSquared-Agency/personalab/internal/store"
)

// RunMessage is the NATS payload for run ingestion subjects. Which of Event,
// Text and Survey is read depends on the subject.
type RunMessage struct {
	RunID  string                `json:"run_id"`
	UserID string                `json:"user_id"`
	Event  *model.Event          `json:"event,omitempty"`
	Text   string                `json:"text,omitempty"`
	Survey *model.SurveyResponse `json:"survey,omitempty"`
}

// Processor feeds test runs from the message bus.
type Processor struct {
	runs    store.Runs
	builder *persona.Builder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(runs store.Runs, builder *persona.Builder, m *metrics.Metrics, logger *slog.Logger) *Processor {
	return &Processor{
		runs:    runs,
		builder: builder,
		metrics: m,
		logger:  logger,
	}
}

// HandleEvent is the NATS handler for personalab.run.event.
func (p *Processor) HandleEvent(subject string, data []byte) {
	msg, ok := p.parse(subject, data)
	if !ok {
		return
	}
	if msg.Event == nil || msg.Event.Name == "" {
		p.logger.Warn("run event without name", "subject", subject, "run_id", msg.RunID)
		return
	}
	if err := p.runs.LogEvent(msg.RunID, msg.UserID, *msg.Event); err != nil {
		p.logger.Error("failed to log event", "run_id", msg.RunID, "error", err)
		return
	}
	p.countWrite("event")
}

// HandleTranscript is the NATS handler for personalab.run.transcript.
func (p *Processor) HandleTranscript(subject string, data []byte) {
	msg, ok := p.parse(subject, data)
	if !ok {
		return
	}
	if err := p.runs.AppendTranscript(msg.RunID, msg.UserID, msg.Text); err != nil {
		p.logger.Error("failed to append transcript", "run_id", msg.RunID, "error", err)
		return
	}
	p.countWrite("transcript")
}

// HandleSurvey is the NATS handler for personalab.run.survey.
func (p *Processor) HandleSurvey(subject string, data []byte) {
	msg, ok := p.parse(subject, data)
	if !ok {
		return
	}
	if msg.Survey == nil {
		p.logger.Warn("survey message without response", "subject", subject, "run_id", msg.RunID)
		return
	}
	if err := p.runs.AddSurveyResponse(msg.RunID, msg.UserID, *msg.Survey); err != nil {
		p.logger.Error("failed to add survey response", "run_id", msg.RunID, "error", err)
		return
	}
	p.countWrite("survey")
}

// HandleFinalize is the NATS handler for personalab.run.finalize.
func (p *Processor) HandleFinalize(subject string, data []byte) {
	msg, ok := p.parse(subject, data)
	if !ok {
		return
	}
	per, err := p.builder.Finalize(context.Background(), msg.RunID)
	if err != nil {
		p.logger.Error("failed to build persona", "run_id", msg.RunID, "error", err)
		return
	}
	p.logger.Info("run finalized from bus", "run_id", msg.RunID, "persona_id", per.ID)
}

func (p *Processor) parse(subject string, data []byte) (RunMessage, bool) {
	var msg RunMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		p.logger.Error("failed to parse run message", "subject", subject, "error", err)
		return msg, false
	}
	if msg.RunID == "" {
		p.logger.Warn("run message without run_id", "subject", subject)
		return msg, false
	}
	return msg, true
}

func (p *Processor) countWrite(kind string) {
	if p.metrics != nil {
		p.metrics.RunWrites.WithLabelValues(kind).Inc()
	}
}
