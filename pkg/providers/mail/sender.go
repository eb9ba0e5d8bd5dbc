package mail

import "context"

// Message is one formatted mail ready for submission.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Sender submits one mail to the relay and returns the relay's message
// identifier. Mail relays are typically durable and queued on the far
// side, so senders perform no internal retry; transport-level retry is
// left to the delivery queue.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
