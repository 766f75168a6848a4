// Package bot provides the handler interface and dispatch pipeline for the
// triage conversation modules. Each module (flow, emergency, booking,
// symptom, selfcare) implements the Handler interface; the registry tries
// them in priority order and the first match answers the message.
package bot

import (
	"context"

	"github.com/healthdesk/triage-bot-go/internal/chat"
)

// Handler defines the interface that all conversation modules implement.
type Handler interface {
	// Name identifies the module in logs and metrics.
	Name() string

	// CanHandle reports whether this module answers the given message.
	// Handlers are consulted in registration order and the first match
	// wins, so a module may rely on everything before it having declined.
	// The sender id is available because the flow module claims messages
	// based on the sender's active booking session, not message content.
	CanHandle(ctx context.Context, senderID, message string) bool

	// Handle produces the replies for the message. All but one branch of
	// the conversation return exactly one reply; the general self-care
	// menu returns two.
	Handle(ctx context.Context, senderID, message string) []chat.Reply
}
