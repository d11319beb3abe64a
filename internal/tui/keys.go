package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress dispatches a key to the handler for the current mode.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeMessageView:
		return m.handleMessageViewKeys(msg)
	case modeHelp:
		return m.handleHelpKeys(msg)
	case modeSearch:
		return m.handleSearchKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys while the list has control.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.mode = modeHelp

	case "r":
		// Mid-session refresh is deliberately not supported.
		m.setStatus("Can't refresh emails during UI running. Restart app to refresh.")

	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()

	case "down", "j":
		m.moveNext()

	case "up", "k":
		m.movePrev()

	case "enter", "right", "l":
		if m.store.VisibleLen() > 0 {
			m.mode = modeMessageView
			m.focus = panelContent
		}

	case "left", "h":
		m.focus = panelList

	case "g":
		m.jumpFirst()

	case "G":
		m.jumpLast()
	}
	return m, nil
}

// handleMessageViewKeys handles keys while reading a message. Navigation
// stays live so the content panel follows the selection.
func (m Model) handleMessageViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc", "left", "h":
		m.mode = modeNormal
		m.focus = panelList

	case "?":
		m.mode = modeHelp

	case "down", "j":
		m.moveNext()

	case "up", "k":
		m.movePrev()
	}
	return m, nil
}

// handleHelpKeys dismisses the help overlay on any key.
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	m.mode = modeNormal
	return m, nil
}

// handleSearchKeys edits the search buffer. Esc cancels and restores the
// full list; enter applies the buffer as the query. Nothing is matched
// until one of those confirms the input.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.applySearch("")
		m.mode = modeNormal
		return m, nil

	case "enter":
		query := m.searchInput.Value()
		m.searchInput.Blur()
		m.applySearch(query)
		m.mode = modeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}
