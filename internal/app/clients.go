package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/yamdb-backend/internal/platform/logger"
	"github.com/yungbote/yamdb-backend/internal/platform/mail"
	"github.com/yungbote/yamdb-backend/internal/platform/sendgrid"
	"github.com/yungbote/yamdb-backend/internal/platform/throttle"
)

type Clients struct {
	Redis  *goredis.Client
	Mailer mail.Sender
	// SignupLimiter caps confirmation-code requests per email.
	SignupLimiter throttle.Limiter
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	mailer, err := newMailer(log, cfg)
	if err != nil {
		return Clients{}, err
	}

	// Redis
	var (
		rdb     *goredis.Client
		limiter throttle.Limiter
	)
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb, err = throttle.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		limiter = throttle.NewRedis(rdb, "yamdb:signup", cfg.SignupResendLimit, cfg.SignupResendWindow)
	} else {
		log.Info("REDIS_ADDR not set; signup throttle is per-process")
		limiter = throttle.NewMemory(cfg.SignupResendLimit, cfg.SignupResendWindow)
	}

	return Clients{
		Redis:         rdb,
		Mailer:        mailer,
		SignupLimiter: limiter,
	}, nil
}

func newMailer(log *logger.Logger, cfg Config) (mail.Sender, error) {
	switch cfg.MailBackend {
	case "sendgrid":
		client, err := sendgrid.New(log, sendgrid.Config{
			APIKey:           cfg.SendGrid.APIKey,
			BaseURL:          cfg.SendGrid.BaseURL,
			DefaultFromEmail: cfg.MailFrom,
			DefaultFromName:  cfg.SendGrid.FromName,
			Timeout:          cfg.SendGrid.Timeout,
			MaxRetries:       cfg.SendGrid.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("init sendgrid client: %w", err)
		}
		return mail.NewSendGridSender(client), nil
	case "resend":
		sender, err := mail.NewResendSender(log, cfg.ResendKey, cfg.MailFrom)
		if err != nil {
			return nil, fmt.Errorf("init resend client: %w", err)
		}
		return sender, nil
	default:
		return mail.NewLogSender(log), nil
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
