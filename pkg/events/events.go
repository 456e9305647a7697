// Package events defines the messages published while runs execute.
package events

import (
	"time"

	"github.com/dukex/flyout/pkg/eventlog"
)

type EventType string

const Topic = "flyout.runs"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// RunEventAppendedEvent carries one entry of a run's event log.
	RunEventAppendedEvent EventType = "run.event.appended"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
}

type RunEventAppended struct {
	BaseEvent

	Event eventlog.Event `json:"event"`
}

func (r RunEventAppended) GetType() EventType {
	return RunEventAppendedEvent
}

// Terminal reports whether the carried event ends its run.
func (r RunEventAppended) Terminal() bool {
	switch r.Event.Kind {
	case eventlog.KindDone, eventlog.KindFatal:
		return true
	case eventlog.KindError:
		return r.Event.Step == "validate"
	default:
		return false
	}
}
