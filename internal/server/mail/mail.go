// Package mail delivers outgoing notification mails: password reset links and
// email verification codes.
package mail

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/config"
)

// Sender delivers one plain-text mail. Errors must reach the caller so the
// surrounding transaction can be aborted.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes mails to the log instead of delivering them.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info(ctx, "mail queued", "to", to, "subject", subject)
	s.log.Debug(ctx, "mail body", "to", to, "body", body)
	return nil
}

// NewSender picks the delivery driver named in cfg.MailDriver.
func NewSender(ctx context.Context, cfg *config.Config, log logging.Logger) (Sender, error) {
	switch cfg.MailDriver {
	case "", "log":
		return NewLogSender(log), nil
	case "ses":
		return NewSESSender(ctx, SESOptions{
			Region:          cfg.SESRegion,
			Endpoint:        cfg.SESEndpoint,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
			From:            cfg.MailFrom,
		})
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}
