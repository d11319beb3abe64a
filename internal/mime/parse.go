// Package mime parses raw RFC 822 messages into the handful of fields the
// dashboard displays.
package mime

import (
	"bytes"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
)

// Message is a parsed email. Only headers and bodies the dashboard renders
// are retained; attachments are not downloaded.
type Message struct {
	Subject   string
	Date      time.Time
	From      []Address
	MessageID string
	BodyText  string
	BodyHTML  string
	Defects   []string // non-fatal parsing problems reported by the decoder
}

// Address is an email address with an optional display name.
type Address struct {
	Name  string
	Email string
}

// Display returns "Name <email>" when a display name is present, otherwise
// the bare address.
func (a Address) Display() string {
	if a.Name != "" {
		return a.Name + " <" + a.Email + ">"
	}
	return a.Email
}

// Parse decodes raw MIME bytes into a Message.
func Parse(raw []byte) (*Message, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	msg := &Message{
		Subject:   env.GetHeader("Subject"),
		MessageID: strings.Trim(env.GetHeader("Message-ID"), "<>"),
		BodyText:  env.Text,
		BodyHTML:  env.HTML,
		From:      addressList(env, "From"),
	}

	if dateStr := env.GetHeader("Date"); dateStr != "" {
		if t, ok := parseDate(dateStr); ok {
			msg.Date = t
		}
	}

	for _, e := range env.Errors {
		msg.Defects = append(msg.Defects, e.Error())
	}

	return msg, nil
}

// BestBody returns the plain-text body, falling back to stripped HTML for
// HTML-only mail.
func (m *Message) BestBody() string {
	if m.BodyText != "" {
		return m.BodyText
	}
	if m.BodyHTML != "" {
		return StripHTML(m.BodyHTML)
	}
	return ""
}

// FirstFrom returns the first From address, or the zero Address if the
// header was missing or unparseable.
func (m *Message) FirstFrom() Address {
	if len(m.From) > 0 {
		return m.From[0]
	}
	return Address{}
}

func addressList(env *enmime.Envelope, header string) []Address {
	list, err := env.AddressList(header)
	if err != nil {
		return nil
	}
	var out []Address
	for _, a := range list {
		if a.Address == "" {
			continue
		}
		out = append(out, Address{Name: a.Name, Email: strings.ToLower(a.Address)})
	}
	return out
}

// dateFormats covers the Date header variants seen in the wild, most common
// first.
var dateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700", // single-digit day
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700", // no weekday
	"02 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
	"Mon, 02 Jan 2006 15:04:05 -0700 (MST)", // parenthesized zone name
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	time.RFC3339,
}

func tryDateFormats(s string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDate parses a Date header, returning the instant in UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")

	// Try first with any trailing "(UTC)"-style zone comment stripped; the
	// numeric offset is what actually matters.
	if idx := strings.LastIndex(s, "("); idx > 0 {
		if t, ok := tryDateFormats(strings.TrimSpace(s[:idx])); ok {
			return t, true
		}
	}
	return tryDateFormats(s)
}

var (
	blockTagRe  = regexp.MustCompile(`(?i)<(/?)(p|div|br|hr|h[1-6]|li|tr|td|th|blockquote|pre|table|ul|ol|dl|dt|dd)[^>]*>`)
	scriptTagRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTagRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTagRe   = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)

	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	whitespaceFixer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ")
)

// StripHTML reduces an HTML body to readable plain text. Script, style and
// head content is dropped, block elements turn into line breaks, entities
// are decoded and whitespace is normalized. Preformatted blocks lose their
// exact spacing, which is acceptable for a reading pane.
func StripHTML(rawHTML string) string {
	text := scriptTagRe.ReplaceAllString(rawHTML, "")
	text = styleTagRe.ReplaceAllString(text, "")
	text = headTagRe.ReplaceAllString(text, "")

	text = blockTagRe.ReplaceAllString(text, "\n")
	text = htmlTagRe.ReplaceAllString(text, "")

	text = whitespaceFixer.Replace(html.UnescapeString(text))

	// Collapse space runs per line, keep the line structure.
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.Join(strings.Fields(lines[i]), " ")
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n\n"))
}
