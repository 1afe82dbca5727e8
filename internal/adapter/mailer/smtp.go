// Package mailer sends registration emails over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/jmkivinen/trialreg/internal/config"
)

// Client wraps an SMTP client with the configured sender address.
type Client struct {
	client *mail.Client
	from   string
}

// New creates an SMTP mail client from MailConfig.
func New(cfg config.MailConfig) (*Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if !cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}

	return &Client{client: client, from: cfg.From}, nil
}

// Send delivers one plain-text email to the given recipients.
func (c *Client) Send(ctx context.Context, to []string, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
