// Package email builds raw RFC 822 fixtures for parser and client tests.
package email

import "strings"

type header struct {
	name, value string
}

// MessageBuilder assembles a raw test message. Lines end with \n so expected
// strings can be written as Go raw literals; CRLF switches to wire format.
type MessageBuilder struct {
	headers []header
	body    string
	crlf    bool
}

// NewMessage returns a builder prefilled with a minimal valid message.
func NewMessage() *MessageBuilder {
	return (&MessageBuilder{body: "Nothing to report this week."}).
		set("From", "alice@example.com").
		set("To", "team@example.com").
		set("Subject", "Status update").
		set("Date", "Thu, 15 Feb 2024 10:30:00 +0000")
}

// set replaces the first header with the given name, or appends it.
func (b *MessageBuilder) set(name, value string) *MessageBuilder {
	for i := range b.headers {
		if b.headers[i].name == name {
			b.headers[i].value = value
			return b
		}
	}
	b.headers = append(b.headers, header{name, value})
	return b
}

func (b *MessageBuilder) remove(name string) *MessageBuilder {
	kept := b.headers[:0]
	for _, h := range b.headers {
		if h.name != name {
			kept = append(kept, h)
		}
	}
	b.headers = kept
	return b
}

// From replaces the From header.
func (b *MessageBuilder) From(v string) *MessageBuilder { return b.set("From", v) }

// To replaces the To header.
func (b *MessageBuilder) To(v string) *MessageBuilder { return b.set("To", v) }

// Subject replaces the Subject header, undoing NoSubject.
func (b *MessageBuilder) Subject(v string) *MessageBuilder { return b.set("Subject", v) }

// NoSubject drops the Subject header.
func (b *MessageBuilder) NoSubject() *MessageBuilder { return b.remove("Subject") }

// Date replaces the Date header; an empty value drops it.
func (b *MessageBuilder) Date(v string) *MessageBuilder {
	if v == "" {
		return b.remove("Date")
	}
	return b.set("Date", v)
}

// ContentType replaces the Content-Type header.
func (b *MessageBuilder) ContentType(v string) *MessageBuilder { return b.set("Content-Type", v) }

// Body sets the body text.
func (b *MessageBuilder) Body(v string) *MessageBuilder { b.body = v; return b }

// Header appends a header without replacing earlier ones of the same name.
func (b *MessageBuilder) Header(name, value string) *MessageBuilder {
	b.headers = append(b.headers, header{name, value})
	return b
}

// CRLF switches to \r\n line endings.
func (b *MessageBuilder) CRLF() *MessageBuilder { b.crlf = true; return b }

// Bytes renders the message. A text/plain Content-Type is supplied unless
// one was set.
func (b *MessageBuilder) Bytes() []byte {
	eol := "\n"
	if b.crlf {
		eol = "\r\n"
	}

	var buf strings.Builder
	hasType := false
	for _, h := range b.headers {
		if h.name == "Content-Type" {
			hasType = true
		}
		buf.WriteString(h.name)
		buf.WriteString(": ")
		buf.WriteString(h.value)
		buf.WriteString(eol)
	}
	if !hasType {
		buf.WriteString(`Content-Type: text/plain; charset="utf-8"`)
		buf.WriteString(eol)
	}
	buf.WriteString(eol)
	buf.WriteString(b.body)
	buf.WriteString(eol)
	return []byte(buf.String())
}
