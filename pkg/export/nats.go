package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pizzalog/eventgen/pkg/simulation"
)

// DefaultSubject prefixes every published event subject
const DefaultSubject = "pizza.events"

const flushTimeout = 10 * time.Second

const (
	HeaderRunID    = "Run-Id"
	HeaderActivity = "Activity"
)

// MsgPublisher is the part of *nats.Conn the sink needs
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// NATSSink publishes each event as JSON to <subject>.<case id>
type NATSSink struct {
	conn    MsgPublisher
	closer  func()
	subject string
	runID   string
}

// NewNATSSink wraps an existing connection
func NewNATSSink(conn MsgPublisher, subject, runID string) *NATSSink {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSSink{conn: conn, subject: subject, runID: runID}
}

// ConnectNATS dials the server and returns a sink owning the connection
func ConnectNATS(url, subject, runID string) (*NATSSink, error) {
	conn, err := nats.Connect(url, nats.Name("pizza-eventgen"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	sink := NewNATSSink(conn, subject, runID)
	sink.closer = conn.Close
	return sink, nil
}

// Publish sends the events in log order and flushes before returning
func (s *NATSSink) Publish(ctx context.Context, events []simulation.OrderEvent) error {
	for i := range events {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("publishing aborted after %d events: %w", i, err)
		}

		ev := &events[i]
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to encode event %d: %w", i+1, err)
		}

		msg := nats.NewMsg(s.subject + "." + ev.CaseID)
		msg.Data = data
		msg.Header.Set(HeaderRunID, s.runID)
		msg.Header.Set(HeaderActivity, string(ev.Activity))

		if err := s.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("failed to publish %s: %w", msg.Subject, err)
		}
	}

	// nats refuses to flush without a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := s.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	return nil
}

// Close releases a connection opened by ConnectNATS
func (s *NATSSink) Close() error {
	if s.closer != nil {
		s.closer()
	}
	return nil
}
