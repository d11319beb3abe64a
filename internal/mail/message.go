// Package mail defines the message model shared by all mail backends and the
// capability the dashboard consumes to obtain messages.
package mail

import (
	"context"
	"time"
)

// Message is one fetched email. Messages are immutable after fetch; a refresh
// replaces the whole set rather than mutating individual entries.
type Message struct {
	ID      string
	Subject string
	Sender  string
	Date    time.Time
	Body    string
}

// Client fetches messages from a mail backend. The dashboard calls
// FetchCurrentQuarter exactly once, at startup; there is no mid-session
// refresh.
type Client interface {
	// FetchCurrentQuarter returns the messages received during the current
	// calendar quarter, in the order the backend produced them.
	FetchCurrentQuarter(ctx context.Context) ([]Message, error)
}
