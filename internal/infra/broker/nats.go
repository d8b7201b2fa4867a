// Package broker fans the match journal out to NATS so other services can follow a match live.
package broker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/MRamiBalles/CookOff/server/internal/events"
)

// publisher is the slice of *nats.Conn the journal needs.
type publisher interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher implements events.EventPersister by publishing each event as JSON.
type NATSPublisher struct {
	conn   publisher
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher connects to url. Events go to "<prefix>.<event_type>".
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("kitchen-server"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: nc, nc: nc, prefix: prefix}, nil
}

// Subject returns the subject an event type is published on, e.g. "kitchen.events.customer_served".
func Subject(prefix string, t events.EventType) string {
	return prefix + "." + strings.ToLower(string(t))
}

// Append implements events.EventPersister.
func (p *NATSPublisher) Append(e events.GameEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", e.ID, err)
	}
	if err := p.conn.Publish(Subject(p.prefix, e.Type), data); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.ID, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
