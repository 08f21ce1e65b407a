// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package email dispatches templated notification mails.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/shelfshare/shelfshare/internal/config"
	"github.com/shelfshare/shelfshare/internal/i18n"
)

// Template names understood by the gateway.
const TemplateActivateAccount = "activate_account"

// Message is one notification to dispatch.
type Message struct {
	To             string
	RecipientName  string
	Template       string
	Subject        string
	ActivationURL  string
	ActivationCode string
}

// Sender is the notification gateway boundary. Transport failures propagate
// to the caller; nothing is retried here.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail over SMTP using go-mail.
type SMTPSender struct {
	cfg *config.SMTPConfig
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg *config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send renders the template for the message and delivers it.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	body, err := renderBody(ctx, m)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

func renderBody(ctx context.Context, m Message) (string, error) {
	switch m.Template {
	case TemplateActivateAccount:
		activationLink := m.ActivationURL
		if m.ActivationCode != "" {
			activationLink = fmt.Sprintf("%s?token=%s", strings.TrimSuffix(m.ActivationURL, "/"), m.ActivationCode)
		}
		return i18n.TData(ctx, "activation_email_body", map[string]any{
			"Name": m.RecipientName,
			"URL":  activationLink,
			"Code": m.ActivationCode,
		}), nil
	default:
		return "", fmt.Errorf("unknown email template: %q", m.Template)
	}
}

// LogSender writes notifications to the log instead of delivering them. Used
// when no SMTP host is configured, typically in development.
type LogSender struct{}

func (LogSender) Send(_ context.Context, m Message) error {
	slog.Info("email_not_sent",
		"to", m.To,
		"template", m.Template,
		"subject", m.Subject,
		"activation_code", m.ActivationCode,
	)
	return nil
}
