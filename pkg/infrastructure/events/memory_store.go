package events

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultRetention is the number of events an InMemoryEventStore keeps when
// no retention is given.
const DefaultRetention = 10000

// InMemoryEventStore keeps the most recent events in memory. Positions are
// global and keep increasing after old events are dropped. Handlers run
// synchronously on the appending goroutine, outside the store lock.
type InMemoryEventStore struct {
	streams     map[string][]BaseEvent
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []BaseEvent
	retention   int
	logger      *zap.Logger
}

func NewInMemoryEventStore(retention int, logger *zap.Logger) *InMemoryEventStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]BaseEvent),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]BaseEvent, 0),
		retention:   retention,
		logger:      logger,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	stream := s.streams[streamID]
	version := 1
	if len(stream) > 0 {
		version = stream[len(stream)-1].EventVersion + 1
	}

	eventWithVersion := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: version,
		Position:     s.position,
	}

	s.streams[streamID] = append(stream, eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.position++
	s.trim()

	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)
	s.mutex.Unlock()

	s.notifySubscribers(eventWithVersion, handlers)
	return nil
}

// trim drops the oldest events beyond retention. Caller holds the lock.
func (s *InMemoryEventStore) trim() {
	excess := len(s.allEvents) - s.retention
	if excess <= 0 {
		return
	}

	for _, dropped := range s.allEvents[:excess] {
		stream := s.streams[dropped.Stream]
		if len(stream) <= 1 {
			delete(s.streams, dropped.Stream)
			continue
		}
		s.streams[dropped.Stream] = stream[1:]
	}
	s.allEvents = append([]BaseEvent(nil), s.allEvents[excess:]...)
}

// ReadEvents returns the retained events of streamID with version >= fromVersion
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := []Event{}
	for _, e := range s.streams[streamID] {
		if e.EventVersion >= fromVersion {
			result = append(result, e)
		}
	}
	return result, nil
}

// ReadAllEvents returns the retained events with position >= fromPosition
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := []Event{}
	for _, e := range s.allEvents {
		if e.Position >= fromPosition {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		newHandlers := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				newHandlers = append(newHandlers, h)
			}
		}
		s.subscribers[eventType] = newHandlers
	}

	return nil
}

func (s *InMemoryEventStore) notifySubscribers(event Event, handlers []EventHandler) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event", event.Type()),
				zap.String("stream", event.StreamID()),
				zap.Error(err),
			)
		}
	}
}
