package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gitlook/internal/github"
)

// openProfile switches to the profile view for the selected user and starts
// loading it.
func (m Model) openProfile() (tea.Model, tea.Cmd) {
	u := m.selectedUser()
	if u == nil || m.profiles == nil {
		return m, nil
	}

	m.currentView = ViewProfile
	m.profileStore.Begin(u.Login)
	m.profile = m.profileStore.Snapshot()
	m.updateProfileViewport()
	m.profileViewport.GotoTop()
	return m, m.loadProfileCmd(u.Login)
}

func (m *Model) initProfileViewport() {
	m.profileViewport = viewport.New(m.profileWidth(), m.profileHeight())
}

func (m *Model) resizeProfileViewport() {
	m.profileViewport.Width = m.profileWidth()
	m.profileViewport.Height = m.profileHeight()
}

func (m Model) profileWidth() int {
	return max(10, m.width-4) // borders + inner padding
}

func (m Model) profileHeight() int {
	return max(1, m.height-4) // header, command bar, borders
}

// updateProfileViewport re-renders the profile body into the viewport.
func (m *Model) updateProfileViewport() {
	if !m.ready {
		return
	}
	m.profileViewport.SetContent(m.renderProfileContent(m.profileViewport.Width))
}

// handleProfileKey processes keyboard input for the profile view.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Retry), key.Matches(msg, m.keys.Refresh):
		if m.profile.Login == "" || m.profile.IsLoading || m.profiles == nil {
			return m, nil
		}
		login := m.profile.Login
		m.profileStore.Begin(login)
		m.profile = m.profileStore.Snapshot()
		m.updateProfileViewport()
		return m, m.loadProfileCmd(login)
	case key.Matches(msg, m.keys.Top):
		m.profileViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.profileViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.profileViewport, cmd = m.profileViewport.Update(msg)
	return m, cmd
}

// renderProfile renders the profile view.
func (m Model) renderProfile() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	p := m.profile

	switch {
	case p.IsLoading:
		body := m.spinner.View() + " " + styles.MutedText.Render("Loading "+p.Login+"...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body)
	case p.Err != nil:
		body := m.renderErrorPanel("Could not load "+p.Login, p.ErrorMessage)
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body)
	case !p.HasProfile:
		body := styles.MutedText.Render("No profile selected")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body)
	}

	title := "Profile · " + p.Login
	content := lipgloss.NewStyle().Padding(0, 1).Render(m.profileViewport.View())
	return m.renderTitledBox(title, content, m.width, contentHeight, true)
}

// renderProfileContent formats the loaded profile as plain lines for the
// viewport.
func (m Model) renderProfileContent(width int) string {
	p := m.profile
	if !p.HasProfile {
		return ""
	}
	styles := m.theme.Styles()
	u := p.Profile.User

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(u.DisplayName()))
	if u.Name != "" {
		b.WriteString("  " + styles.MutedText.Render("@"+u.Login))
	}
	b.WriteString("\n")

	if facts := joinNonEmpty(" · ", u.Location, u.Company, u.Blog, u.Email); facts != "" {
		b.WriteString(styles.MutedText.Render(truncate(facts, width)))
		b.WriteString("\n")
	}
	if u.Bio != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(styles.Text.Render(strings.TrimSpace(u.Bio))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderProfileStats(p.Profile.TotalStars(), u))
	b.WriteString("\n\n")

	repos := p.Profile.Repositories
	heading := fmt.Sprintf("Repositories (%d)", len(repos))
	if p.Profile.Forks > 0 {
		heading += fmt.Sprintf(" · %d forks hidden", p.Profile.Forks)
	}
	b.WriteString(styles.AccentText.Bold(true).Render(heading))
	b.WriteString("\n")

	if len(repos) == 0 {
		b.WriteString(styles.FaintText.Render("No public repositories"))
		return b.String()
	}
	for _, r := range repos {
		b.WriteString(m.renderRepository(r, width))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderProfileStats(stars int, u github.UserDetail) string {
	styles := m.theme.Styles()
	stat := func(label string, n int) string {
		return styles.Text.Bold(true).Render(formatCount(n)) + " " + styles.MutedText.Render(label)
	}
	return strings.Join([]string{
		stat("followers", u.Followers),
		stat("following", u.Following),
		stat("repos", u.PublicRepos),
		styles.WarningText.Render("★") + " " + stat("stars", stars),
	}, styles.FaintText.Render("  ·  "))
}

// renderRepository renders one repository as a title line and an optional
// description line.
func (m Model) renderRepository(r github.Repository, width int) string {
	styles := m.theme.Styles()

	var line strings.Builder
	if r.Language != "" {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Color(r.Language)))
		line.WriteString(dot.Render("■") + " ")
	} else {
		line.WriteString("  ")
	}
	line.WriteString(styles.Text.Bold(true).Render(r.Name))
	line.WriteString("  " + styles.WarningText.Render("★") + " " + styles.Text.Render(formatCount(r.StargazersCount)))
	if r.Language != "" {
		line.WriteString("  " + styles.BadgeStyle(m.palette.Color(r.Language)).Render(r.Language))
	}

	out := line.String() + "\n"
	if desc := strings.TrimSpace(r.Description); desc != "" {
		out += "  " + styles.FaintText.Render(truncate(desc, width-2)) + "\n"
	}
	return out
}
