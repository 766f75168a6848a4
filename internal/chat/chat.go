// Package chat defines the wire types of the Rasa REST channel contract:
// the inbound webhook body and the reply objects returned to the caller.
package chat

// DefaultSender is substituted when a webhook call omits the sender id,
// matching the Rasa REST channel's behavior.
const DefaultSender = "default"

// Inbound is the request body of POST /webhooks/rest/webhook.
type Inbound struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// Button is a quick-reply action attached to a reply. Payload is the
// slash-command a client sends back when the button is pressed.
type Button struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// Reply is a single bot response. A webhook call returns a JSON array of
// these; buttons are omitted from the wire form when empty.
type Reply struct {
	RecipientID string   `json:"recipient_id"`
	Text        string   `json:"text"`
	Buttons     []Button `json:"buttons,omitempty"`
}

// NewReply builds a reply for the given recipient.
func NewReply(recipientID, text string, buttons ...Button) Reply {
	return Reply{
		RecipientID: recipientID,
		Text:        text,
		Buttons:     buttons,
	}
}

// Btn is a shorthand constructor for reply buttons.
func Btn(title, payload string) Button {
	return Button{Title: title, Payload: payload}
}
