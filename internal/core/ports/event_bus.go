package ports

import "context"

// Topics published on the bus.
const (
	// TopicSubmissionBroadcast carries a domain.Submission that reached at
	// least one administrator.
	TopicSubmissionBroadcast = "submission:broadcast"
)

// Event is a generic wrapper for any event payload
type Event struct {
	Topic string
	Data  any
}

// EventHandler is a function that can handle a specific event
type EventHandler func(ctx context.Context, event Event) error

// EventBus defines the interface for our in-process pub/sub system
type EventBus interface {
	// Publish hands the event to every subscriber of the topic
	Publish(ctx context.Context, topic string, data any) error

	// Subscribe registers a handler for a specific topic
	Subscribe(topic string, handler EventHandler)
}
