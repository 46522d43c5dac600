// Package email delivers transactional mail such as PIN reset notices.
package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // falls back to the sender's default
	Subject string
	HTML    string
	ReplyTo string // falls back to the sender's default
}

// SendResult is the provider's acknowledgement.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers mail through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	// Enabled reports whether Send reaches a real mailbox.
	Enabled() bool
}
