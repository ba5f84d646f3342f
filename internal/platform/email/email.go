// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

// Package email delivers transactional mail for the account lifecycle.
//
// The [Sender] interface is what the auth service depends on; the SMTP
// implementation here is the production transport, and tests substitute
// an in-memory fake.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender delivers account lifecycle emails.
type Sender interface {
	// SendVerificationEmail mails a link embedding the signed verification
	// token. A returned error means delivery failed and the caller must
	// treat the triggering operation as failed.
	SendVerificationEmail(ctx context.Context, to, verificationToken string) error

	// SendPasswordResetEmail mails the 6-digit reset code.
	SendPasswordResetEmail(ctx context.Context, to, resetCode string) error
}

// SMTPSender sends mail over plain SMTP with optional AUTH.
type SMTPSender struct {
	host          string
	port          int
	username      string
	password      string
	from          string
	subjectPrefix string
	apiBaseURL    string
	logger        *slog.Logger
}

// SMTPConfig holds the connection settings for [NewSMTPSender].
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// SubjectPrefix brands every subject line. Empty falls back to the
	// product name.
	SubjectPrefix string

	APIBaseURL string
}

// NewSMTPSender creates a production mail sender.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "Fairway"
	}

	return &SMTPSender{
		host:          cfg.Host,
		port:          cfg.Port,
		username:      cfg.Username,
		password:      cfg.Password,
		from:          cfg.From,
		subjectPrefix: prefix,
		apiBaseURL:    cfg.APIBaseURL,
		logger:        logger,
	}
}

// subject builds a branded subject line.
func (s *SMTPSender) subject(topic string) string {
	return s.subjectPrefix + ": " + topic
}

// SendVerificationEmail mails the email verification link.
func (s *SMTPSender) SendVerificationEmail(ctx context.Context, to, verificationToken string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email/%s", s.apiBaseURL, verificationToken)

	body := fmt.Sprintf(
		"Please use the following link to verify your email address: %s",
		verificationURL,
	)

	return s.send(ctx, to, s.subject("Verify Your Email Address"), body)
}

// SendPasswordResetEmail mails the 6-digit password reset code.
func (s *SMTPSender) SendPasswordResetEmail(ctx context.Context, to, resetCode string) error {
	body := fmt.Sprintf("Your password reset code is: %s", resetCode)

	return s.send(ctx, to, s.subject("Password Reset Code"), body)
}

// send assembles an RFC 5322 message and hands it to the SMTP server.
//
// net/smtp's SendMail does not take a context; delivery deadlines are bounded
// by the server's write timeout. The context is honored up-front so a caller
// whose request already expired does not trigger a send.
func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("email: aborted before send: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		s.logger.ErrorContext(ctx, "email_delivery_failed",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("email: delivery to %s failed: %w", to, err)
	}

	s.logger.InfoContext(ctx, "email_delivered",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
