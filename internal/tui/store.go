package tui

import (
	"strings"

	"github.com/mailtui/mailtui/internal/mail"
)

// Store holds the fetched messages together with the filtered view over
// them. Filtering keeps a list of indices into the backing slice rather than
// copying messages, so applying a new query never clones message bodies.
// The zero value is an empty store.
type Store struct {
	messages []mail.Message
	filtered []int
}

// ReplaceAll installs a freshly fetched message set and resets the filtered
// view to the full set, in order. Empty input is valid.
func (s *Store) ReplaceAll(msgs []mail.Message) {
	s.messages = msgs
	s.filtered = allIndices(len(msgs))
}

// Filter narrows the view to messages whose subject, sender, or body
// contains query as a case-insensitive substring, preserving store order.
// An empty query restores the full set. Each call re-evaluates against the
// whole store, so consecutive filters do not compound. Returns the number
// of visible messages.
func (s *Store) Filter(query string) int {
	if query == "" {
		s.filtered = allIndices(len(s.messages))
		return len(s.filtered)
	}

	q := strings.ToLower(query)
	filtered := make([]int, 0, len(s.messages))
	for i, msg := range s.messages {
		if strings.Contains(strings.ToLower(msg.Subject), q) ||
			strings.Contains(strings.ToLower(msg.Sender), q) ||
			strings.Contains(strings.ToLower(msg.Body), q) {
			filtered = append(filtered, i)
		}
	}
	s.filtered = filtered
	return len(s.filtered)
}

// Len returns the total number of messages, ignoring any active filter.
func (s *Store) Len() int {
	return len(s.messages)
}

// VisibleLen returns the number of messages matching the active filter.
func (s *Store) VisibleLen() int {
	return len(s.filtered)
}

// Visible returns the message at position pos of the filtered view, or
// false when pos is out of range.
func (s *Store) Visible(pos int) (mail.Message, bool) {
	if pos < 0 || pos >= len(s.filtered) {
		return mail.Message{}, false
	}
	return s.messages[s.filtered[pos]], true
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
