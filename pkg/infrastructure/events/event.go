// Package events keeps a bounded, in-process log of explosion outcomes.
// Each explosion appends one event to the stream of its root item; the
// metrics recorder and the /api/v1/events endpoints read from the log.
package events

import (
	"time"
)

// Event is one entry of the explosion log. Version counts events within a
// root item's stream; Position orders events across all streams.
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

// EventHandler is notified after an event of a type it can handle is appended
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventPublisher is the write side of an EventStore, all BOMService needs
type EventPublisher interface {
	AppendEvent(streamID string, event Event) error
}

// EventStore appends explosion events and serves them back by root item or
// by global position
type EventStore interface {
	EventPublisher
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// BaseEvent is the stored form of an event and its JSON shape on the API.
// Stream is the root item id; Version and Position are assigned on append.
type BaseEvent struct {
	EventType    string      `json:"type"`
	Stream       string      `json:"stream"`
	EventData    interface{} `json:"data"`
	EventTime    time.Time   `json:"timestamp"`
	EventVersion int         `json:"version"`
	Position     int         `json:"position"`
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

// NewEvent creates an unsaved event for the stream of a root item
func NewEvent(eventType, streamID string, data interface{}) Event {
	return BaseEvent{
		EventType:    eventType,
		Stream:       streamID,
		EventData:    data,
		EventTime:    time.Now(),
		EventVersion: 1,
	}
}
