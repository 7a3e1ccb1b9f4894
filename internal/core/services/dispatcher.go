package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.EventDispatcher = (*Dispatcher)(nil)

type subscription struct {
	name    string
	handler driving.EventHandler
}

// Dispatcher delivers lifecycle events to handlers in registration order.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[driving.Event][]subscription
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[driving.Event][]subscription),
	}
}

// Subscribe registers a handler for event.
func (d *Dispatcher) Subscribe(event driving.Event, name string, handler driving.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], subscription{name: name, handler: handler})
}

// Dispatch runs every handler for event. Errors and panics are collected.
func (d *Dispatcher) Dispatch(ctx context.Context, event driving.Event) error {
	d.mu.RLock()
	subs := append([]subscription(nil), d.handlers[event]...)
	d.mu.RUnlock()

	logger.Debug("dispatching %s to %d handlers", event, len(subs))

	var errs []error
	for _, sub := range subs {
		if err := d.call(ctx, event, sub); err != nil {
			logger.Warn("%s handler %s failed: %v", event, sub.name, err)
			errs = append(errs, fmt.Errorf("%s handler %s: %w", event, sub.name, err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) call(ctx context.Context, event driving.Event, sub subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sub.handler(ctx, event)
}
