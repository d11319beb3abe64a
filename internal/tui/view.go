package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mailtui/mailtui/internal/mail"
)

var (
	focusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("3"))

	blurredPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder())

	panelTitleStyle = lipgloss.NewStyle().Bold(true)

	subjectStyle = lipgloss.NewStyle().Bold(true)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("8")).
				Bold(true)

	listLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4"))

	contentLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("3"))

	loadingStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3"))

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6"))

	idleStatusStyle = lipgloss.NewStyle()

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	helpFooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
)

// helpLines is the body of the help overlay.
var helpLines = []string{
	"Keyboard Shortcuts:",
	"",
	"j/k or ↑/↓ - Navigate up/down through emails",
	"l or → or Enter - View selected email details",
	"h or ← or Esc - Return to email list",
	"g - Go to first email",
	"G - Go to last email",
	"r - Refresh emails",
	"q - Quit application",
	"? - Show/hide this help menu",
	"/ - Search emails",
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	view := m.renderMain()

	switch m.mode {
	case modeHelp:
		return m.overlayModal(view, m.renderHelpModal())
	case modeSearch:
		return m.overlayModal(view, m.renderSearchModal())
	}
	return view
}

// renderMain lays out the list and content panels over the status bar.
func (m Model) renderMain() string {
	listWidth := m.width * 30 / 100
	contentWidth := m.width - listWidth
	panelHeight := m.height - 1

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderListPanel(listWidth, panelHeight),
		m.renderContentPanel(contentWidth, panelHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels, m.renderStatusBar())
}

// panelStyle returns the border style for a panel given the current focus.
func (m Model) panelStyle(p panel) lipgloss.Style {
	if m.focus == p {
		return focusedPanelStyle
	}
	return blurredPanelStyle
}

// renderListPanel renders the filtered message list with the cursor row
// marked and the window scrolled to keep it visible.
func (m Model) renderListPanel(width, height int) string {
	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	lines := []string{panelTitleStyle.Render("Emails")}

	n := m.store.VisibleLen()
	if n > 0 {
		start := m.scrollOffset
		if start > n-1 {
			start = n - 1
		}
		if start < 0 {
			start = 0
		}
		end := start + m.visibleItems()
		if end > n {
			end = n
		}
		for pos := start; pos < end; pos++ {
			msg, _ := m.store.Visible(pos)
			lines = append(lines, m.renderListEntry(msg, pos == m.cursor, innerWidth)...)
		}
	}

	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	return m.panelStyle(panelList).
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}

// renderListEntry renders one list row: marker and subject, then sender and
// date, then a separator line.
func (m Model) renderListEntry(msg mail.Message, selected bool, width int) []string {
	textWidth := width - 3
	if textWidth < 1 {
		textWidth = 1
	}

	subject := truncateRunes(msg.Subject, textWidth)
	var subjectLine string
	switch {
	case selected:
		subjectLine = ">> " + selectedItemStyle.Render(subject)
	case m.appliedQuery != "":
		subjectLine = "   " + highlightMatches(subject, m.appliedQuery)
	default:
		subjectLine = "   " + subjectStyle.Render(subject)
	}

	sender := truncateRunes(msg.Sender, textWidth-6)
	return []string{
		subjectLine,
		"   " + listLabelStyle.Render("From: ") + sender,
		"   " + listLabelStyle.Render("Date: ") + msg.Date.Format("2006-01-02 15:04"),
		"",
	}
}

// renderContentPanel renders the selected message's headers and body.
func (m Model) renderContentPanel(width, height int) string {
	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}
	innerHeight := height - 2
	if innerHeight < 1 {
		innerHeight = 1
	}

	lines := []string{panelTitleStyle.Render("Content")}

	if msg, ok := m.selectedMessage(); ok {
		lines = append(lines,
			contentLabelStyle.Render("Subject: ")+subjectStyle.Render(truncateRunes(msg.Subject, innerWidth-9)),
			contentLabelStyle.Render("From: ")+truncateRunes(msg.Sender, innerWidth-6),
			contentLabelStyle.Render("Date: ")+msg.Date.Format("2006-01-02 15:04:05"),
			"",
			"",
		)
		lines = append(lines, wrapText(msg.Body, innerWidth)...)
	} else {
		lines = append(lines, "No email selected")
	}

	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	return m.panelStyle(panelContent).
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}

// renderStatusBar renders the one-line footer: spinner while loading, then
// any transient status, then an idle hint for the current mode.
func (m Model) renderStatusBar() string {
	var text string
	var style lipgloss.Style
	switch {
	case m.loading:
		text = fmt.Sprintf("%s Loading emails...", spinnerFrames[m.spinnerFrame])
		style = loadingStatusStyle
	case m.statusMessage != "":
		text = m.statusMessage
		style = statusMessageStyle
	default:
		switch m.mode {
		case modeMessageView:
			text = "Email view mode | Press Esc to return | ? for help"
		case modeHelp:
			text = "Help mode"
		case modeSearch:
			text = "Search mode"
		default:
			text = "Normal mode | Press ? for help | q to quit"
		}
		style = idleStatusStyle
	}
	return style.Render(padRight(text, m.width))
}

// renderHelpModal renders the keyboard reference shown in Help mode.
func (m Model) renderHelpModal() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(helpLines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(helpFooterStyle.Render("Press any key to close this help window"))
	return modalStyle.Render(b.String())
}

// renderSearchModal renders the query prompt shown in Search mode.
func (m Model) renderSearchModal() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Search Emails"))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	return modalStyle.Render(b.String())
}

// overlayModal composites modal centered over background, preserving the
// background text either side of the modal on every covered line.
func (m Model) overlayModal(background, modal string) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")
	modalWidth := lipgloss.Width(modal)

	top := (m.height - len(modalLines)) / 2
	if top < 0 {
		top = 0
	}
	left := (m.width - modalWidth) / 2
	if left < 0 {
		left = 0
	}

	for i, modalLine := range modalLines {
		bgIdx := top + i
		if bgIdx >= len(bgLines) {
			break
		}
		bgLine := bgLines[bgIdx]
		bgWidth := lipgloss.Width(bgLine)

		newLine := truncateToWidth(bgLine, left)
		if pad := left - lipgloss.Width(newLine); pad > 0 {
			newLine += strings.Repeat(" ", pad)
		}
		newLine += modalLine

		rightStart := left + lipgloss.Width(modalLine)
		if rightStart < bgWidth {
			newLine += skipToWidth(bgLine, rightStart)
		}
		bgLines[bgIdx] = newLine
	}
	return strings.Join(bgLines, "\n")
}
