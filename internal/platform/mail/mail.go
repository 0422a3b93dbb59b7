// Package mail delivers transactional email through a pluggable backend.
package mail

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationMessage renders the email carrying a signup confirmation code.
func ConfirmationMessage(to, username, code string) Message {
	name := strings.TrimSpace(username)
	if name == "" {
		name = "there"
	}
	return Message{
		To:      to,
		Subject: "Your confirmation code",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour confirmation code: %s\n\nExchange it together with your username at /api/v1/auth/token/ to get an access token.\n",
			name, code,
		),
	}
}

func validate(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("mail: recipient required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("mail: subject required")
	}
	if strings.TrimSpace(msg.Text) == "" && strings.TrimSpace(msg.HTML) == "" {
		return fmt.Errorf("mail: body required")
	}
	return nil
}
