// Package tui provides the interactive terminal dashboard for mailtui.
//
// The dashboard follows the Bubble Tea architecture: Model carries all
// state, Update reacts to messages, View renders a snapshot. Every state
// mutation happens on the program goroutine; the startup fetch runs as a
// command and hands its result back as a message before the next draw.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mailtui/mailtui/internal/mail"
	"github.com/mailtui/mailtui/internal/textutil"
)

// mode is the active interaction context governing key semantics.
type mode int

const (
	modeNormal mode = iota
	modeMessageView
	modeHelp
	modeSearch
)

// panel identifies which side of the split layout has focus.
type panel int

const (
	panelList panel = iota
	panelContent
)

const (
	// tickInterval bounds the wait for input so status expiry and the
	// spinner advance even when no keys arrive.
	tickInterval = 250 * time.Millisecond

	// statusTimeout is how long a transient status message stays visible.
	statusTimeout = 5 * time.Second
)

// spinnerFrames animate the status bar while the startup fetch runs.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Options configures a dashboard model.
type Options struct {
	// Logger receives debug events. Defaults to a discard logger.
	Logger *slog.Logger

	// Now is the clock used for status expiry. Defaults to time.Now.
	Now func() time.Time
}

// Model is the Bubble Tea model for the mail dashboard.
type Model struct {
	client mail.Client
	logger *slog.Logger
	now    func() time.Time

	store Store

	// Selection and focus
	cursor       int
	scrollOffset int
	focus        panel

	mode mode

	// Search state. The input buffer is matched only on confirmation;
	// appliedQuery is what the store is currently filtered by.
	searchInput  textinput.Model
	appliedQuery string

	// Status bar
	statusMessage   string
	statusExpiresAt time.Time
	loading         bool
	spinnerFrame    int

	// Terminal dimensions
	width  int
	height int

	quitting bool
}

// New creates a dashboard for the given mail backend. The fetch starts when
// the program calls Init.
func New(client mail.Client, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.CharLimit = 256

	m := Model{
		client:      client,
		logger:      logger,
		now:         now,
		searchInput: ti,
	}
	m.statusMessage = "Loading emails..."
	m.statusExpiresAt = now().Add(statusTimeout)
	m.loading = true
	return m
}

// messagesLoadedMsg carries the result of the startup fetch.
type messagesLoadedMsg struct {
	messages []mail.Message
	err      error
}

// tickMsg drives status expiry and spinner animation.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchMessages loads the current quarter off the update loop. The result
// comes back as a messagesLoadedMsg and is applied before the next draw.
func (m Model) fetchMessages() tea.Cmd {
	client := m.client
	logger := m.logger
	return func() (msg tea.Msg) {
		// Convert panics into an error message so a backend bug cannot
		// take down the terminal.
		defer func() {
			if r := recover(); r != nil {
				msg = messagesLoadedMsg{err: fmt.Errorf("fetch panicked: %v", r)}
			}
		}()

		messages, err := client.FetchCurrentQuarter(context.Background())
		if err != nil {
			logger.Debug("fetch failed", "error", err)
		}
		return messagesLoadedMsg{messages: messages, err: err}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchMessages(), tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 0 {
			m.width = 0
		}
		if m.height < 0 {
			m.height = 0
		}
		m.ensureCursorVisible()
		return m, nil

	case messagesLoadedMsg:
		return m.applyFetchResult(msg), nil

	case tickMsg:
		m.expireStatus()
		if m.loading {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		}
		return m, tick()
	}

	return m, nil
}

// applyFetchResult installs a fetch result. A failure leaves the store
// untouched so whatever is on screen stays usable.
func (m Model) applyFetchResult(msg messagesLoadedMsg) Model {
	if msg.err != nil {
		// The status bar is one line; collapse multi-line backend errors.
		m.setStatus(fmt.Sprintf("Failed to fetch emails: %s", textutil.FirstLine(msg.err.Error())))
		return m
	}

	m.store.ReplaceAll(msg.messages)
	if n := m.store.VisibleLen(); m.cursor >= n {
		if n == 0 {
			m.cursor = 0
		} else {
			m.cursor = n - 1
		}
	}
	m.ensureCursorVisible()
	m.logger.Debug("messages loaded", "count", m.store.Len())
	m.setStatus("Emails refreshed successfully")
	return m
}

// setStatus shows a transient status message. Setting any message also
// stops the loading indicator.
func (m *Model) setStatus(text string) {
	m.statusMessage = text
	m.statusExpiresAt = m.now().Add(statusTimeout)
	m.loading = false
}

// expireStatus clears the status message once it has been visible for the
// full timeout. Safe to call on every tick.
func (m *Model) expireStatus() {
	if m.statusMessage == "" {
		return
	}
	if !m.now().Before(m.statusExpiresAt) {
		m.statusMessage = ""
	}
}

// applySearch runs query against the store and moves the cursor to the top
// of the results. An empty result keeps the cursor where it was, so a miss
// does not lose the user's place; an empty query resets silently, without a
// status message.
func (m *Model) applySearch(query string) {
	n := m.store.Filter(query)
	m.appliedQuery = query
	if n > 0 {
		m.cursor = 0
		m.scrollOffset = 0
	}
	if query == "" {
		return
	}
	if n == 0 {
		m.setStatus(fmt.Sprintf("No emails found matching '%s'", query))
		return
	}
	m.setStatus(fmt.Sprintf("Found %d emails matching '%s'", n, query))
}
