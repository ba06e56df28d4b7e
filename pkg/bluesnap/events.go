package bluesnap

import "time"

// EventType identifies a point in the send lifecycle.
type EventType string

const (
	EventRequestSending   EventType = "request.sending"
	EventResponseReceived EventType = "response.received"
	EventRequestFailed    EventType = "request.failed"
)

// Event describes one step of a single Send. All events of the same Send
// share a CorrelationID.
type Event struct {
	Type          EventType
	CorrelationID string
	Operation     string
	Method        string
	Endpoint      string
	StatusCode    int
	RequestID     string
	Duration      time.Duration
	Err           error
}

// Listener observes requests sent through a Client. HandleEvent runs
// synchronously on the sending goroutine.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) HandleEvent(e Event) {
	f(e)
}
