package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// layoutBreakers collapses characters that would break single-row layout.
var layoutBreakers = strings.NewReplacer("\n", " ", "\r", "", "\t", " ")

// highlightMatches wraps every case-insensitive occurrence of query in text
// with the highlight style. It operates on runes rather than bytes because
// strings.ToLower can change the byte length of some characters (e.g. İ)
// while preserving the rune count.
func highlightMatches(text, query string) string {
	if text == "" || query == "" {
		return text
	}

	textRunes := []rune(text)
	lowerRunes := []rune(strings.ToLower(text))
	queryRunes := []rune(strings.ToLower(query))
	qLen := len(queryRunes)
	if qLen == 0 || qLen > len(lowerRunes) {
		return text
	}

	var sb strings.Builder
	prev := 0
	for i := 0; i+qLen <= len(lowerRunes); i++ {
		if !slices.Equal(lowerRunes[i:i+qLen], queryRunes) {
			continue
		}
		sb.WriteString(string(textRunes[prev:i]))
		sb.WriteString(highlightStyle.Render(string(textRunes[i : i+qLen])))
		prev = i + qLen
		i += qLen - 1
	}
	if prev == 0 {
		return text
	}
	sb.WriteString(string(textRunes[prev:]))
	return sb.String()
}

// padRight pads s with spaces to exactly width terminal cells, truncating
// ANSI-aware when it is too long.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return ansi.Truncate(s, width, "")
}

// truncateRunes fits s in maxWidth terminal cells, collapsing newlines and
// tabs first so a multi-line value cannot break the layout. Full-width runes
// count as two cells.
func truncateRunes(s string, maxWidth int) string {
	s = layoutBreakers.Replace(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	ellipsis := "..."
	if maxWidth <= 3 {
		ellipsis = ""
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// wrapText wraps text to rows of at most width terminal cells, keeping
// existing newlines.
func wrapText(text string, width int) []string {
	if width <= 0 {
		width = 80
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

// wrapLine splits one logical line into rows, preferring a space break when
// one lands past the middle of the row.
func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var rows []string
	runes := []rune(line)
	for len(runes) > 0 {
		fit, lastSpace := fitCells(runes, width)
		at := fit
		if lastSpace > fit/2 && fit < len(runes) {
			at = lastSpace
		}
		if at == 0 {
			// Single rune wider than the row, take it anyway.
			at = 1
		}
		rows = append(rows, string(runes[:at]))
		runes = runes[at:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}
	return rows
}

// fitCells reports how many leading runes fit in width cells and where the
// last space among them sits (-1 when there is none).
func fitCells(runes []rune, width int) (fit, lastSpace int) {
	lastSpace = -1
	cells := 0
	for i, r := range runes {
		cells += runewidth.RuneWidth(r)
		if cells > width {
			return fit, lastSpace
		}
		fit = i + 1
		if r == ' ' {
			lastSpace = i
		}
	}
	return fit, lastSpace
}

// truncateToWidth returns the prefix of s that fits within maxWidth visual
// columns, preserving ANSI escape sequences.
func truncateToWidth(s string, maxWidth int) string {
	return ansi.Truncate(s, maxWidth, "")
}

// skipToWidth returns the suffix of s starting after skipWidth visual
// columns, preserving ANSI escape sequences.
func skipToWidth(s string, skipWidth int) string {
	return ansi.Cut(s, skipWidth, 10000)
}
