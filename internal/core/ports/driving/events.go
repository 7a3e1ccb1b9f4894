package driving

import "context"

// Event is a lifecycle event.
type Event string

// Lifecycle events.
const (
	EventStartup       Event = "startup"
	EventShutdown      Event = "shutdown"
	EventConfigChanged Event = "config_changed"
)

// EventHandler handles a lifecycle event.
type EventHandler func(ctx context.Context, event Event) error

// EventDispatcher delivers lifecycle events to registered handlers.
type EventDispatcher interface {
	// Subscribe registers a handler. Handlers run in registration order.
	Subscribe(event Event, name string, handler EventHandler)

	// Dispatch runs every handler for event. A failing or panicking
	// handler does not stop later handlers; their errors are joined.
	Dispatch(ctx context.Context, event Event) error
}
