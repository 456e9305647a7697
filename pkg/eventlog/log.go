// Package eventlog provides the append-only, ordered record of everything a run attempted.
package eventlog

import (
	"context"
	"log/slog"
	"time"
)

// Kind classifies an event for readers of the log.
type Kind string

const (
	KindInfo    Kind = "info"
	KindAction  Kind = "action"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
	KindFatal   Kind = "fatal"
	KindDone    Kind = "done"
)

// Event is one timestamped entry of the log. Events are never mutated once appended.
type Event struct {
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Step      string    `json:"step,omitempty"`
	Message   string    `json:"message"`
	Detail    any       `json:"detail,omitempty"`
}

// Sink receives every event right after it is appended.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Emit(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Log has a single writer: the run driver. Sinks are called synchronously, in
// registration order, and their failures never reach the writer.
type Log struct {
	events []Event
	sinks  []Sink
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Log)

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		l.logger = logger
	}
}

func WithSinks(sinks ...Sink) Option {
	return func(l *Log) {
		l.sinks = append(l.sinks, sinks...)
	}
}

func New(opts ...Option) *Log {
	l := &Log{
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Append records an event and forwards it to the sinks.
func (l *Log) Append(ctx context.Context, kind Kind, step, message string, detail any) Event {
	event := Event{
		Seq:       len(l.events) + 1,
		Timestamp: l.now().UTC(),
		Kind:      kind,
		Step:      step,
		Message:   message,
		Detail:    detail,
	}

	l.events = append(l.events, event)

	for _, sink := range l.sinks {
		if err := sink.Emit(ctx, event); err != nil {
			l.logger.WarnContext(ctx, "event sink failed", "kind", kind, "seq", event.Seq, "error", err)
		}
	}

	return event
}

// Events returns a copy of the recorded events in append order.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)

	return out
}

func (l *Log) Len() int {
	return len(l.events)
}

func (l *Log) Last() (Event, bool) {
	if len(l.events) == 0 {
		return Event{}, false
	}

	return l.events[len(l.events)-1], true
}

// Kinds lists the kind of every event, in order.
func (l *Log) Kinds() []Kind {
	kinds := make([]Kind, 0, len(l.events))
	for _, e := range l.events {
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

// Filter returns the events of the given kind, in order.
func (l *Log) Filter(kind Kind) []Event {
	var out []Event

	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}
