package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/gitlook/internal/langcolor"
	"github.com/five82/gitlook/internal/listing"
	"github.com/five82/gitlook/internal/prefs"
	"github.com/five82/gitlook/internal/profile"
)

// View represents the current active view.
type View int

const (
	ViewUsers View = iota
	ViewProfile
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Listing   *listing.Controller
	Profiles  *profile.Loader
	Palette   *langcolor.Palette
	Token     string
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	listing   *listing.Controller
	profiles  *profile.Loader
	palette   *langcolor.Palette
	token     string
	prefs     prefs.Prefs
	prefsPath string
	logger    zerolog.Logger
	keys      keyMap

	// Snapshot delivery
	feed         *snapshotFeed
	profileStore *profile.Store

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	spinner     spinner.Model

	// Users state
	snapshot    listing.Snapshot
	selectedRow int
	offset      int

	// Profile state
	profile         profile.Snapshot
	profileViewport viewport.Model
}

// New creates a new Bubble Tea model and subscribes it to the listing.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Default()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	palette := opts.Palette
	if palette == nil {
		palette = langcolor.New()
	}

	feed := newSnapshotFeed()
	var snap listing.Snapshot
	if opts.Listing != nil {
		opts.Listing.Subscribe(feed.publish)
		snap = opts.Listing.Snapshot()
	}

	theme := GetTheme(p.Theme)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Styles().AccentText

	return Model{
		ctx:          ctx,
		listing:      opts.Listing,
		profiles:     opts.Profiles,
		palette:      palette,
		token:        opts.Token,
		prefs:        p,
		prefsPath:    prefsPath,
		logger:       opts.Logger.With().Str("component", "ui").Logger(),
		keys:         DefaultKeyMap(),
		feed:         feed,
		profileStore: &profile.Store{},
		theme:        theme,
		currentView:  ViewUsers,
		spinner:      sp,
		snapshot:     snap,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForSnapshotCmd(m.ctx, m.feed),
	}
	if m.listing != nil {
		cmds = append(cmds, m.startCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initProfileViewport()
		}
		m.ready = true
		m.resizeProfileViewport()
		m.ensureSelectionVisible()
		m.updateProfileViewport()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(listing.Snapshot(msg))
		return m, waitForSnapshotCmd(m.ctx, m.feed)

	case profileMsg:
		if msg.login == m.profile.Login {
			m.profile = m.profileStore.Snapshot()
			m.updateProfileViewport()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateProfileViewport()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewUsers
		return m, nil
	}

	switch m.currentView {
	case ViewProfile:
		return m.handleProfileKey(msg)
	default:
		return m.handleUsersKey(msg)
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn().Err(err).Msg("save preferences")
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewProfile:
		return m.renderProfile()
	default:
		return m.renderUsers()
	}
}

// Messages

type snapshotMsg listing.Snapshot

type profileMsg struct {
	login string
}

// Commands

func waitForSnapshotCmd(ctx context.Context, feed *snapshotFeed) tea.Cmd {
	return func() tea.Msg {
		snap, ok := feed.next(ctx)
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Listing operations publish through the feed, so their commands carry no
// message of their own.

func (m Model) startCmd() tea.Cmd {
	ctl, ctx, token := m.listing, m.ctx, m.token
	return func() tea.Msg {
		ctl.StartOrReset(ctx, token)
		return nil
	}
}

func (m Model) loadMoreCmd() tea.Cmd {
	ctl, ctx, token := m.listing, m.ctx, m.token
	return func() tea.Msg {
		ctl.LoadNextPage(ctx, token)
		return nil
	}
}

func (m Model) retryCmd() tea.Cmd {
	ctl, ctx, token := m.listing, m.ctx, m.token
	return func() tea.Msg {
		ctl.Retry(ctx, token)
		return nil
	}
}

func (m Model) changeSortCmd(order listing.SortOrder) tea.Cmd {
	ctl, ctx, token := m.listing, m.ctx, m.token
	return func() tea.Msg {
		ctl.ChangeSortAndRefetch(ctx, order, token)
		return nil
	}
}

func (m Model) loadProfileCmd(login string) tea.Cmd {
	loader, store, ctx, token := m.profiles, m.profileStore, m.ctx, m.token
	return func() tea.Msg {
		p, err := loader.Load(ctx, token, login)
		store.Finish(login, p, err)
		return profileMsg{login: login}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
