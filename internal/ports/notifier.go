package ports

import (
	"context"
)

// Message is a rendered notification
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Notifier delivers reminder messages
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}
