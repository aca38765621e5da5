package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gitlook/internal/github"
	"github.com/five82/gitlook/internal/listing"
)

// applySnapshot stores snap. The selected user stays selected when it is
// still listed, so a resort does not move the cursor to another user.
func (m *Model) applySnapshot(snap listing.Snapshot) {
	var selectedID int64
	if u := m.selectedUser(); u != nil {
		selectedID = u.ID
	}

	m.snapshot = snap
	itemCount := len(snap.Items)
	if itemCount == 0 {
		m.selectedRow = 0
		m.offset = 0
		return
	}

	found := false
	if selectedID != 0 {
		for i, u := range snap.Items {
			if u.ID == selectedID {
				m.selectedRow = i
				found = true
				break
			}
		}
	}
	if !found && m.selectedRow >= itemCount {
		m.selectedRow = itemCount - 1
	}
	m.ensureSelectionVisible()
}

func (m *Model) selectedUser() *github.User {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Items) {
		return nil
	}
	u := m.snapshot.Items[m.selectedRow]
	return &u
}

// listHeight is the number of user rows that fit in the list box.
func (m Model) listHeight() int {
	// header, command bar, two borders, footer line
	return max(1, m.height-5)
}

func (m *Model) ensureSelectionVisible() {
	h := m.listHeight()
	if m.selectedRow < m.offset {
		m.offset = m.selectedRow
	}
	if m.selectedRow >= m.offset+h {
		m.offset = m.selectedRow - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.snapshot.Items)-h))
}

// handleUsersKey processes keyboard input for the users view.
func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listing == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Retry):
		return m, m.retryCmd()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startCmd()
	case key.Matches(msg, m.keys.LoadMore):
		return m, m.loadMoreCmd()
	case key.Matches(msg, m.keys.ToggleSort):
		order := m.snapshot.SortOrder.Toggle()
		m.prefs.Sort = order.String()
		m.savePrefs()
		return m, m.changeSortCmd(order)
	case key.Matches(msg, m.keys.LocalSort):
		order := m.snapshot.SortOrder.Toggle()
		m.prefs.Sort = order.String()
		m.savePrefs()
		m.applySnapshot(m.listing.SetSortOrder(order))
		return m, nil
	}

	itemCount := len(m.snapshot.Items)
	if itemCount == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < itemCount-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = itemCount - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(itemCount-1, m.selectedRow+m.listHeight()/2)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(0, m.selectedRow-m.listHeight()/2)
	case key.Matches(msg, m.keys.Open):
		return m.openProfile()
	default:
		return m, nil
	}

	m.ensureSelectionVisible()
	return m, m.loadMoreAtEnd()
}

// loadMoreAtEnd requests the next page once the last row is selected.
func (m Model) loadMoreAtEnd() tea.Cmd {
	s := m.snapshot
	if !s.HasMore || s.IsLoading || len(s.Items) == 0 {
		return nil
	}
	if m.selectedRow < len(s.Items)-1 {
		return nil
	}
	return m.loadMoreCmd()
}

// renderUsers renders the users list view.
func (m Model) renderUsers() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // Account for header + cmdbar
	s := m.snapshot

	if len(s.Items) == 0 {
		var body string
		switch s.Phase {
		case listing.PhaseErrored:
			body = m.renderErrorPanel("Could not load users", s.ErrorMessage)
		case listing.PhaseLoaded:
			body = styles.MutedText.Render("No users found")
		default:
			body = m.spinner.View() + " " + styles.MutedText.Render("Loading users...")
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body)
	}

	title := fmt.Sprintf("Users · %s", s.SortOrder.Label())
	content := m.renderUserRows(m.width-2, m.theme.FocusBg) // -2 for borders
	return m.renderTitledBox(title, content, m.width, contentHeight, true)
}

// renderUserRows renders the visible window of users plus a status footer.
func (m Model) renderUserRows(width int, bgColor string) string {
	items := m.snapshot.Items
	h := m.listHeight()
	end := min(len(items), m.offset+h)
	idWidth := idColumnWidth(items)

	lines := make([]string, 0, h+1)
	for i := m.offset; i < end; i++ {
		lineBg := bgColor
		selected := i == m.selectedRow
		if selected {
			lineBg = m.theme.SelectionBg
		}
		content := m.formatUserRow(items[i], idWidth, width, lineBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(lineBg)).
			Width(width).
			Render(content))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderListFooter(bgColor))
	return strings.Join(lines, "\n")
}

// formatUserRow formats a row as "#ID login", adding the profile URL on
// wide terminals.
func (m Model) formatUserRow(u github.User, idWidth, width int, bgColor string, selected bool) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)

	idStyle, loginStyle, urlStyle := styles.FaintText, styles.Text, styles.MutedText
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, loginStyle, urlStyle = sel, sel.Bold(true), sel
	}

	id := padRight("#"+strconv.FormatInt(u.ID, 10), idWidth)
	row := bg.Render(id, idStyle) + bg.Spaces(2) + bg.Render(u.Login, loginStyle)

	if width >= LayoutWideWidth && u.HTMLURL != "" {
		used := idWidth + 2 + len([]rune(u.Login))
		room := width - used - 4
		if room > 10 {
			row += bg.Spaces(4) + bg.Render(truncate(u.HTMLURL, room), urlStyle)
		}
	}
	return row
}

// renderListFooter shows loading, error or pagination state under the list.
func (m Model) renderListFooter(bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	s := m.snapshot

	switch {
	case s.IsLoading:
		return m.spinner.View() + bg.Space() + bg.Render("Loading more users...", styles.MutedText)
	case s.Phase == listing.PhaseErrored:
		return bg.Render(s.ErrorMessage, styles.DangerText) + bg.Spaces(2) +
			bg.Render("r", styles.AccentText) + bg.Sep(":") + bg.Render("Retry", styles.MutedText)
	case s.HasMore:
		return bg.Render("m", styles.AccentText) + bg.Sep(":") +
			bg.Render("Load more", styles.MutedText)
	default:
		return bg.Render(fmt.Sprintf("End of list · %s users", formatCount(len(s.Items))), styles.FaintText)
	}
}

// renderErrorPanel renders a bordered error message with a retry hint.
func (m Model) renderErrorPanel(title, message string) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(message))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("r") + styles.MutedText.Render(" Retry"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(min(60, max(20, m.width-4))).
		Render(b.String())
}

func idColumnWidth(items []github.User) int {
	w := 0
	for _, u := range items {
		w = max(w, len(strconv.FormatInt(u.ID, 10))+1)
	}
	return w
}
