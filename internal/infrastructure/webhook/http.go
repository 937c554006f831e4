// Package webhook delivers commission events to an external HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

// EventHeader carries the event name so receivers can route without parsing.
const EventHeader = "X-Ordertracker-Event"

// Delivery is the JSON body posted for each event.
type Delivery struct {
	ID      uuid.UUID        `json:"id"`
	SentAt  time.Time        `json:"sent_at"`
	Event   string           `json:"event"`
	Payload ports.AuditEvent `json:"payload"`
}

type Emitter struct {
	client *http.Client
	url    string
	header http.Header
	events map[string]struct{} // nil delivers everything
	now    func() time.Time
}

type Option func(*Emitter)

// WithClient replaces the default client (10s timeout).
func WithClient(c *http.Client) Option {
	return func(e *Emitter) { e.client = c }
}

// WithAuthHeader takes "Name: value"; a bare value becomes Authorization.
func WithAuthHeader(raw string) Option {
	return func(e *Emitter) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}
		name, value, ok := strings.Cut(raw, ":")
		if !ok || strings.ContainsAny(name, " \t") {
			e.header.Set("Authorization", raw)
			return
		}
		e.header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
}

// WithEvents limits delivery to the named events. Empty means all.
func WithEvents(names ...string) Option {
	return func(e *Emitter) {
		for _, n := range names {
			if n = strings.TrimSpace(n); n == "" {
				continue
			}
			if e.events == nil {
				e.events = make(map[string]struct{})
			}
			e.events[n] = struct{}{}
		}
	}
}

func NewEmitter(url string, opts ...Option) *Emitter {
	e := &Emitter{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		header: make(http.Header),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wants reports whether event passes the configured filter.
func (e *Emitter) Wants(event string) bool {
	if e.events == nil {
		return true
	}
	_, ok := e.events[event]
	return ok
}

// Emit posts a Delivery. Filtered events return nil without a request.
func (e *Emitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	if !e.Wants(event.Event) {
		return nil
	}
	body, err := json.Marshal(Delivery{ID: uuid.New(), SentAt: e.now().UTC(), Event: event.Event, Payload: event})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for k, v := range e.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, event.Event)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %s: %w", event.Event, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode/100 != 2 {
		return &StatusError{Event: event.Event, Status: resp.StatusCode}
	}
	return nil
}

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	Event  string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook %s: endpoint answered %d", e.Event, e.Status)
}

// Discard drops every event; used when WEBHOOK_URL is unset.
type Discard struct{}

func (Discard) Emit(context.Context, ports.AuditEvent) error { return nil }

var (
	_ ports.WebhookEmitter = (*Emitter)(nil)
	_ ports.WebhookEmitter = Discard{}
)
