package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

type resendSender struct {
	client *resend.Client
	from   string
	log    *logger.Logger
}

func NewResendSender(log *logger.Logger, apiKey, from string) (Sender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("missing RESEND_API_KEY")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("missing MAIL_FROM")
	}
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log.With("mailer", "resend"),
	}, nil
}

func (s *resendSender) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	})
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.log.Warn("Resend rate limit exceeded", "limit", rateLimitErr.Limit, "reset", rateLimitErr.Reset)
			return fmt.Errorf("email rate limit exceeded: %w", err)
		}
		return fmt.Errorf("resend send: %w", err)
	}
	s.log.Debug("Email sent via Resend", "email_id", sent.Id)
	return nil
}
