package bot

import (
	"context"

	"github.com/healthdesk/triage-bot-go/internal/chat"
)

// Registry holds the conversation modules in priority order.
type Registry struct {
	handlers []Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make([]Handler, 0),
	}
}

// Register appends a handler. Registration order is dispatch order: the
// flow module must come first so an active booking session captures every
// message, and the emergency module second so emergency keywords pre-empt
// all topic matching.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// Dispatch finds the first handler that claims the message and returns its
// replies along with the handler's name. ok is false when no handler
// claimed the message; the caller falls back to the greeting menu.
func (r *Registry) Dispatch(ctx context.Context, senderID, message string) ([]chat.Reply, string, bool) {
	for _, h := range r.handlers {
		if h.CanHandle(ctx, senderID, message) {
			return h.Handle(ctx, senderID, message), h.Name(), true
		}
	}
	return nil, "", false
}

// GetHandler returns the handler registered under the given name, or nil.
func (r *Registry) GetHandler(name string) Handler {
	for _, h := range r.handlers {
		if h.Name() == name {
			return h
		}
	}
	return nil
}

// Handlers returns the registered handlers in dispatch order.
func (r *Registry) Handlers() []Handler {
	return r.handlers
}
