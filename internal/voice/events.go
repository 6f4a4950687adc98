// Package voice bridges a browser-side voice call to the interview lifecycle.
// Call events arrive on an Emitter, final transcript turns are buffered per
// session and the end of the call triggers scoring.
package voice

import (
	"context"
	"sync"
)

// EventType names a voice call event.
type EventType string

// Voice call events.
const (
	EventCallStart   EventType = "call-start"
	EventCallEnd     EventType = "call-end"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventTranscript  EventType = "transcript"
	EventError       EventType = "error"
)

// Event is one call event. Role and Content are set for EventTranscript,
// Message for EventError.
type Event struct {
	Type    EventType
	Role    string
	Content string
	Message string
}

// Handler receives events.
type Handler func(Event)

// Emitter is a synchronous publish/subscribe hub for call events.
type Emitter struct {
	mu       sync.Mutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id      int
	handler Handler
}

// NewEmitter returns an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers h and returns a func that removes it. The returned
// func is safe to call more than once.
func (e *Emitter) Subscribe(h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, subscription{id: id, handler: h})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, sub := range e.handlers {
			if sub.id == id {
				e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every subscriber in subscription order and returns
// once all of them have run.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	handlers := make([]Handler, len(e.handlers))
	for i, sub := range e.handlers {
		handlers[i] = sub.handler
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Bridge drives one voice call.
type Bridge interface {
	StartCall(ctx context.Context, assistant *AssistantConfig, questions []string) error
	StopCall(ctx context.Context) error
	Events() *Emitter
}
