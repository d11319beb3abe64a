package tui

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mailtui/mailtui/internal/mail"
)

const ansiStart = "\x1b["

// colorProfileMu serializes tests that pin the global lipgloss color
// profile.
var colorProfileMu sync.Mutex

// forceColorProfile pins lipgloss to ANSI colors for the duration of a test
// so rendered output is deterministic regardless of the environment.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prev)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// stripANSI removes ANSI escape sequences so tests can assert on the plain
// text of rendered output.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// fakeClient is a mail.Client returning canned results.
type fakeClient struct {
	messages []mail.Message
	err      error
}

func (c *fakeClient) FetchCurrentQuarter(ctx context.Context) ([]mail.Message, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.messages, nil
}

// panickyClient is a mail.Client whose fetch panics.
type panickyClient struct{}

func (panickyClient) FetchCurrentQuarter(ctx context.Context) ([]mail.Message, error) {
	panic("backend exploded")
}

// testClock is a manual clock for expiry tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testMessages returns four messages mirroring the demo data set.
func testMessages() []mail.Message {
	base := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	return []mail.Message{
		{
			ID:      "1",
			Subject: "Project Update - Q2",
			Sender:  "manager@company.com",
			Date:    base,
			Body:    "The project is on track for the quarter.",
		},
		{
			ID:      "2",
			Subject: "Team Meeting - Tomorrow",
			Sender:  "team-lead@company.com",
			Date:    base.Add(24 * time.Hour),
			Body:    "Agenda attached for tomorrow's meeting.",
		},
		{
			ID:      "3",
			Subject: "Vacation Request",
			Sender:  "hr@company.com",
			Date:    base.Add(48 * time.Hour),
			Body:    "Your vacation request was approved.",
		},
		{
			ID:      "4",
			Subject: "System Maintenance Notice",
			Sender:  "it-support@company.com",
			Date:    base.Add(72 * time.Hour),
			Body:    "Scheduled downtime on Saturday night.",
		},
	}
}

// manyMessages returns n distinct messages for scrolling tests.
func manyMessages(n int) []mail.Message {
	msgs := make([]mail.Message, n)
	for i := range msgs {
		msgs[i] = mail.Message{
			ID:      fmt.Sprintf("m%d", i),
			Subject: fmt.Sprintf("Message %02d", i),
			Sender:  fmt.Sprintf("sender%d@example.com", i),
			Date:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			Body:    fmt.Sprintf("Body of message %02d.", i),
		}
	}
	return msgs
}

// testModelBuilder builds settled Model fixtures: messages installed, not
// loading, no pending status, clock under test control.
type testModelBuilder struct {
	messages []mail.Message
	width    int
	height   int
	clock    *testClock
}

func newTestModel() *testModelBuilder {
	return &testModelBuilder{
		messages: testMessages(),
		width:    100,
		height:   24,
		clock:    newTestClock(time.Date(2024, 5, 21, 12, 0, 0, 0, time.UTC)),
	}
}

func (b *testModelBuilder) WithMessages(msgs []mail.Message) *testModelBuilder {
	b.messages = msgs
	return b
}

func (b *testModelBuilder) WithSize(width, height int) *testModelBuilder {
	b.width = width
	b.height = height
	return b
}

func (b *testModelBuilder) WithClock(clock *testClock) *testModelBuilder {
	b.clock = clock
	return b
}

func (b *testModelBuilder) Build() Model {
	m := New(&fakeClient{messages: b.messages}, Options{Now: b.clock.Now})
	m.width = b.width
	m.height = b.height
	m.store.ReplaceAll(b.messages)
	m.loading = false
	m.statusMessage = ""
	return m
}

// keyMsg converts a readable key name into a tea.KeyMsg.
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press feeds keys to the model in order and returns the updated model.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = updated.(Model)
		if !ok {
			t.Fatalf("Update returned %T, want Model", updated)
		}
	}
	return m
}
