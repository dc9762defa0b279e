package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	DefaultSubject = "rapidpro.export"
	flushTimeout   = 10 * time.Second
)

// NATS publishes each record as JSON on "<subject>.<resource>".
type NATS struct {
	conn    *nats.Conn
	subject string
	owned   bool
}

// ConnectNATS dials url and publishes under subject.
func ConnectNATS(url, subject string) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("rapidpro-cli export"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	s := NewNATS(nc, subject)
	s.owned = true
	return s, nil
}

// NewNATS publishes on an existing connection, which Close leaves open.
func NewNATS(nc *nats.Conn, subject string) *NATS {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATS{conn: nc, subject: strings.TrimSuffix(subject, ".")}
}

// Subject returns the subject records of resource are published on.
func (s *NATS) Subject(resource string) string {
	return s.subject + "." + resource
}

func (s *NATS) Write(ctx context.Context, resource string, batch []Record) error {
	subject := s.Subject(resource)
	for _, r := range batch {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", resource, err)
		}
		msg := nats.NewMsg(subject)
		msg.Data = data
		if id := RecordID(r); id != "" {
			msg.Header.Set(nats.MsgIdHdr, resource+":"+id)
		}
		if err := s.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("publish %s: %w", subject, err)
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	return s.conn.FlushWithContext(ctx)
}

func (s *NATS) Close() error {
	if s.owned {
		return s.conn.Drain()
	}
	return nil
}
