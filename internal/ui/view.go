package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
)

// footerTone selects the footer color.
type footerTone int

const (
	toneIdle footerTone = iota
	toneBusy
	toneDone
	toneError
)

// renderMain renders header, tab bar, list and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the logo, backend and connectivity status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)

	parts := []string{bg.Render("lister", styles.Logo)}
	if m.backend != "" {
		parts = append(parts, bg.Render(m.backend, styles.MutedText))
	}

	if m.healthSnap.IsOffline() {
		parts = append(parts,
			styles.Badge.Render(classifyError(m.healthSnap.LastError)),
			bg.Render(fmt.Sprintf("%d failures in a row", m.healthSnap.ConsecutiveFailures), styles.WarningText),
		)
	} else if m.healthSnap.Fetches > 0 {
		parts = append(parts, bg.Render("● online", styles.SuccessText))
	}

	if !m.healthSnap.LastUpdated.IsZero() && m.width >= LayoutCompactWidth {
		parts = append(parts,
			bg.Render("updated", styles.FaintText)+bg.Spaces(1)+
				bg.Render(m.healthSnap.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	parts = append(parts,
		bg.Render("T", styles.AccentText)+bg.Render(":", styles.FaintText)+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTabs renders one tab per list with its loaded count.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(m.panes))
	for i, p := range m.panes {
		label := fmt.Sprintf("%s %d", tabTitle(p.kind()), p.summary().Count)
		if i == m.active {
			tabs = append(tabs, styles.TabOn.Render(label))
		} else {
			tabs = append(tabs, styles.TabOff.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderList renders the visible window of the active list.
func (m Model) renderList() string {
	height := m.listHeight()
	styles := m.theme.Styles()
	lines := make([]string, 0, height)

	p := m.current()
	if p == nil {
		lines = append(lines, styles.MutedText.Render("No lists configured"))
		return padLines(lines, height)
	}

	rows := p.rows()
	if len(rows) == 0 {
		s := p.summary()
		msg := "No items"
		if s.HasMore || s.Refreshing || s.LoadingMore {
			msg = "Loading..."
		}
		if s.LastError != nil && !s.LoadingMore && !s.Refreshing {
			msg = "Nothing loaded yet"
		}
		placed := lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
		return placed
	}

	offset := min(p.viewport(), len(rows))
	end := min(offset+height, len(rows))
	sel := p.selection()
	for _, r := range rows[offset:end] {
		text := truncate(r.text, m.width-2)
		switch {
		case r.header:
			lines = append(lines, styles.Section.Width(m.width).Render(" "+text))
		case r.ordinal == sel:
			lines = append(lines, styles.Selected.Width(m.width).Render(" "+text))
		default:
			lines = append(lines, styles.Text.Render(" "+text))
		}
	}
	return padLines(lines, height)
}

// renderFooter renders the load state of the active list and key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := newBgStyle(m.theme.Surface)

	p := m.current()
	if p == nil {
		return styles.Footer.Width(m.width).Render("")
	}

	text, tone := footerStatus(p.summary())
	var status string
	switch tone {
	case toneBusy:
		status = m.spinner.View() + bg.Spaces(1) + bg.Render(text, styles.InfoText)
	case toneDone:
		status = bg.Render(text, styles.MutedText)
	case toneError:
		status = bg.Render(truncate(text, max(m.width-50, 20)), styles.DangerText) + bg.Spaces(2)
		if retryOp(p.summary()) == pager.OpLoadNext {
			status += bg.Render("more available,", styles.MutedText) + bg.Spaces(1)
		}
		status += bg.Render("R", styles.AccentText) + bg.Render(" to retry", styles.MutedText)
	default:
		status = bg.Render(text, styles.Text)
	}

	hints := []string{
		bg.Render("r", styles.AccentText) + bg.Render(":Refresh", styles.MutedText),
		bg.Render("tab", styles.AccentText) + bg.Render(":Switch", styles.MutedText),
		bg.Render("?", styles.AccentText) + bg.Render(":Help", styles.MutedText),
	}
	if m.width < LayoutCompactWidth {
		hints = nil
	}
	return styles.Footer.Width(m.width).Render(bg.Join(append([]string{status}, hints...), "  "))
}

// footerStatus describes a list's load state in one line.
func footerStatus(s paneSummary) (string, footerTone) {
	switch {
	case s.Refreshing:
		return "Refreshing...", toneBusy
	case s.LoadingMore:
		return fmt.Sprintf("Loading page %d...", s.Cursor), toneBusy
	case s.LastError != nil:
		return s.LastError.Error(), toneError
	case !s.HasMore:
		return fmt.Sprintf("End of list · %d items", s.Count), toneDone
	}
	return fmt.Sprintf("%d items loaded · page %d next", s.Count, s.Cursor), toneIdle
}

// retryOp returns the operation R repeats: the failed one when the last
// error came from Refresh, LoadNext otherwise.
func retryOp(s paneSummary) pager.Op {
	var serr *pager.SourceError
	if errors.As(s.LastError, &serr) && serr.Op == pager.OpRefresh {
		return pager.OpRefresh
	}
	return pager.OpLoadNext
}

func tabTitle(kind catalog.Kind) string {
	switch kind {
	case catalog.KindProducts:
		return "Products"
	case catalog.KindContacts:
		return "Contacts"
	}
	return string(kind)
}

// classifyError returns a short label for the last fetch error.
func classifyError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "returned status"):
		return "API ERROR"
	default:
		return "ERROR"
	}
}

// truncate shortens s to at most limit bytes with an ellipsis.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}

func padLines(lines []string, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}
