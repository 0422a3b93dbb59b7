package mail

import (
	"context"
	"fmt"

	"github.com/yungbote/yamdb-backend/internal/platform/sendgrid"
)

type sendgridSender struct {
	client sendgrid.Client
}

func NewSendGridSender(client sendgrid.Client) Sender {
	return &sendgridSender{client: client}
}

func (s *sendgridSender) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	_, err := s.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: msg.To}},
		Subject:    msg.Subject,
		Text:       msg.Text,
		HTML:       msg.HTML,
		Categories: []string{"confirmation"},
	})
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	return nil
}
