/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/example/mr-pulse/internal/config"
	"github.com/rs/zerolog"
)

// Client delivers alert mail over SMTP. With incomplete credentials every
// send is a silent no-op; callers treat delivery as best-effort either way.
// The whole conversation runs against one deadline so a black-holed server
// degrades to an error instead of blocking the caller.
type Client struct {
	host    string
	port    int
	user    string
	pass    string
	to      string
	timeout time.Duration
	log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	c := &Client{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		user:    cfg.SMTPUser,
		pass:    cfg.SMTPPassword,
		to:      cfg.Email,
		timeout: cfg.HTTPTimeout,
		log:     log,
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if !cfg.MailConfigured() {
		c.user, c.pass = "", ""
	}
	return c
}

func (c *Client) Send(ctx context.Context, subject, body string) error {
	if c.user == "" || c.pass == "" || c.to == "" {
		return nil
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("smtp deadline: %w", err)
	}

	cl, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer cl.Close()

	if ok, _ := cl.Extension("STARTTLS"); ok {
		if err := cl.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if err := cl.Auth(smtp.PlainAuth("", c.user, c.pass, c.host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := cl.Mail(c.user); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := cl.Rcpt(c.to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := cl.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	msg := strings.Join([]string{
		"From: " + c.user,
		"To: " + c.to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	if err := cl.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}
	c.log.Info().Str("subject", subject).Msg("alert mail sent")
	return nil
}
