package tui

import (
	"github.com/mailtui/mailtui/internal/mail"
)

// List geometry. Each entry renders as four lines (subject, sender, date,
// separator); the panel loses two lines to its border and one to its title,
// and the window loses one line to the status bar.
const (
	listItemHeight    = 4
	panelChromeHeight = 4
)

// visibleItems returns how many list entries fit in the list panel.
func (m Model) visibleItems() int {
	rows := (m.height - panelChromeHeight) / listItemHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// moveNext advances the cursor one entry, wrapping past the end of the
// filtered list back to the top. No-op when the list is empty.
func (m *Model) moveNext() {
	n := m.store.VisibleLen()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + 1) % n
	m.ensureCursorVisible()
}

// movePrev moves the cursor one entry back, wrapping from the top of the
// filtered list to the bottom. No-op when the list is empty.
func (m *Model) movePrev() {
	n := m.store.VisibleLen()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor - 1 + n) % n
	m.ensureCursorVisible()
}

// jumpFirst moves the cursor to the top of the filtered list.
func (m *Model) jumpFirst() {
	if m.store.VisibleLen() == 0 {
		return
	}
	m.cursor = 0
	m.scrollOffset = 0
}

// jumpLast moves the cursor to the bottom of the filtered list.
func (m *Model) jumpLast() {
	n := m.store.VisibleLen()
	if n == 0 {
		return
	}
	m.cursor = n - 1
	m.ensureCursorVisible()
}

// selectedMessage returns the message under the cursor, if any.
func (m Model) selectedMessage() (mail.Message, bool) {
	return m.store.Visible(m.cursor)
}

// ensureCursorVisible scrolls the list window so the cursor stays on screen.
func (m *Model) ensureCursorVisible() {
	m.scrollOffset = calculateScrollOffset(m.cursor, m.scrollOffset, m.visibleItems())
}

// calculateScrollOffset returns the scroll offset that keeps cursor inside a
// window of pageSize entries, moving the window as little as possible.
func calculateScrollOffset(cursor, currentOffset, pageSize int) int {
	if cursor < currentOffset {
		return cursor
	}
	if cursor >= currentOffset+pageSize {
		return cursor - pageSize + 1
	}
	return currentOffset
}
