// Package imap fetches the current quarter's messages from an IMAP server,
// implementing mail.Client for the dashboard.
package imap

import (
	"fmt"
	"net/url"
)

// Config describes how to reach one IMAP account.
type Config struct {
	Host     string
	Port     int
	TLS      bool // Implicit TLS (IMAPS, port 993)
	STARTTLS bool // STARTTLS upgrade (port 143)
	Username string
	Mailbox  string // Mailbox to read, defaults to INBOX
}

// port returns the configured port, defaulted by TLS mode.
func (c *Config) port() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.TLS {
		return 993
	}
	return 143
}

// Addr returns the "host:port" dial string.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.port())
}

// MailboxName returns the mailbox to read, defaulting to INBOX.
func (c *Config) MailboxName() string {
	if c.Mailbox == "" {
		return "INBOX"
	}
	return c.Mailbox
}

// Identifier returns a canonical account string such as "imaps://user@host:993".
// Credentials at rest are keyed by this value.
func (c *Config) Identifier() string {
	scheme := "imap"
	if c.TLS {
		scheme = "imaps"
	}
	return fmt.Sprintf("%s://%s@%s:%d", scheme, url.PathEscape(c.Username), c.Host, c.port())
}
