package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const serviceName = "personalab"

// sender is the publishing half of *nats.Conn.
type sender interface {
	Publish(subject string, data []byte) error
}

// Client is personalab's NATS connection: it consumes run messages and
// announces built personas.
type Client struct {
	conn   *nats.Conn
	out    sender
	subs   []*nats.Subscription
	logger *slog.Logger
	now    func() time.Time
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name(serviceName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{
		conn:   nc,
		out:    nc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// PublishPersonaCreated announces a newly stored persona.
func (c *Client) PublishPersonaCreated(evt PersonaCreated) error {
	if evt.PersonaID == "" {
		return fmt.Errorf("persona created event without persona id")
	}
	return c.publish(SubjectPersonaCreated, evt)
}

// PublishRegistered announces this instance and the port its HTTP API listens on.
func (c *Client) PublishRegistered(port int) error {
	return c.publish(SubjectRegistered, Registered{
		Service:   serviceName,
		Port:      port,
		Timestamp: c.now(),
	})
}

func (c *Client) publish(subject string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := c.out.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// SubscribeRuns subscribes every non-nil handler to its run subject.
func (c *Client) SubscribeRuns(h RunHandlers) error {
	for _, route := range h.bySubject() {
		if route.handler == nil {
			continue
		}
		if err := c.subscribe(route.subject, route.handler); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) subscribe(subject string, handler Handler) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
