package ui

import (
	"strings"

	"github.com/five82/gitlook/internal/listing"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	s := m.snapshot

	parts := []string{bg.Render("gitlook", styles.Logo)}

	if m.currentView == ViewProfile && m.profile.Login != "" {
		parts = append(parts,
			bg.Render("Profile:", styles.MutedText)+bg.Space()+bg.Render(m.profile.Login, styles.Text))
	}

	parts = append(parts,
		bg.Render("Users:", styles.MutedText)+bg.Space()+bg.Render(formatCount(len(s.Items)), styles.Text))

	if !compact {
		parts = append(parts,
			bg.Render("Sort:", styles.MutedText)+bg.Space()+bg.Render(s.SortOrder.Label(), styles.InfoText))
	}

	switch s.Phase {
	case listing.PhaseLoading:
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Loading", styles.WarningText))
	case listing.PhaseErrored:
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText)+bg.Space()+
				bg.Render(truncate(s.ErrorMessage, maxErr), styles.DangerText))
	case listing.PhaseLoaded:
		if s.HasMore {
			parts = append(parts, bg.Render("● more", styles.SuccessText))
		} else {
			parts = append(parts, bg.Render("● end", styles.MutedText))
		}
	}

	if m.token == "" {
		label := "anonymous (60 req/h)"
		if compact {
			label = "anon"
		}
		parts = append(parts, bg.Render(label, styles.WarningText))
	} else if !compact {
		parts = append(parts, bg.Render("authenticated", styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewProfile:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"esc", "Users"},
			{"?", "More"},
		}
	default: // ViewUsers
		commands = []cmd{
			{"j/k", "Navigate"},
			{"enter", "Profile"},
			{"s", m.snapshot.SortOrder.Toggle().String()},
			{"m", "More"},
			{"R", "Reload"},
			{"?", "Help"},
		}
		if m.snapshot.Phase == listing.PhaseErrored {
			commands = append([]cmd{{"r", "Retry"}}, commands...)
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
