package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/gitlook/internal/config"
	"github.com/five82/gitlook/internal/credentials"
	"github.com/five82/gitlook/internal/github"
	"github.com/five82/gitlook/internal/langcolor"
	"github.com/five82/gitlook/internal/listing"
	"github.com/five82/gitlook/internal/logging"
	"github.com/five82/gitlook/internal/prefs"
	"github.com/five82/gitlook/internal/profile"
	"github.com/five82/gitlook/internal/ui"
)

// Options configure the gitlook application.
type Options struct {
	ConfigPath      string
	PrefsPath       string // empty uses default ~/.config/gitlook/prefs.toml
	CredentialsPath string // empty uses default ~/.config/gitlook/credentials.toml
	Token           string // --token; wins over every other source
	Debug           bool
}

// Env holds the collaborators shared by the TUI and the plain commands.
type Env struct {
	Config      config.Config
	Credentials *credentials.Store
	Auth        credentials.Resolution
	Client      *github.Client
	Logger      zerolog.Logger

	closeLog func() error
}

// Setup loads configuration, resolves the token and builds the API client.
// Log records go to the configured file and, when console is non-nil, to
// console as well.
func Setup(opts Options, console io.Writer) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.Debug {
		level = "debug"
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:   level,
		File:    cfg.LogFile,
		Console: console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	store := credentials.NewStore(opts.CredentialsPath)
	auth, err := credentials.Resolve(opts.Token, store)
	if err != nil {
		// An unreadable token file is not fatal; continue unauthenticated.
		logger.Warn().Err(err).Msg("read stored token")
	}

	client, err := github.NewClient(cfg.APIURL,
		github.WithTimeout(cfg.Timeout),
		github.WithUserAgent(cfg.UserAgent),
		github.WithLogger(logging.Component(logger, "github")),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init github client: %w", err)
	}

	logger.Debug().
		Str("api_url", client.BaseURL()).
		Int("page_size", cfg.PageSize).
		Str("token_origin", string(auth.Origin)).
		Msg("gitlook configured")

	return &Env{
		Config:      cfg,
		Credentials: store,
		Auth:        auth,
		Client:      client,
		Logger:      logger,
		closeLog:    closeLog,
	}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// NewListing returns a listing controller over the API client.
func (e *Env) NewListing(order listing.SortOrder) *listing.Controller {
	return listing.New(e.Client,
		listing.WithPageSize(e.Config.PageSize),
		listing.WithSortOrder(order),
		listing.WithLogger(e.Logger),
	)
}

// NewProfileLoader returns a profile loader over the API client.
func (e *Env) NewProfileLoader() *profile.Loader {
	return profile.NewLoader(e.Client, e.Logger)
}

// Run boots the gitlook TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	// The TUI owns the terminal, so logs go to the file only.
	env, err := Setup(opts, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs := prefs.Load(opts.PrefsPath)
	if env.Auth.Token == "" {
		env.Logger.Info().Msg("no token configured; requests are unauthenticated")
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Listing:   env.NewListing(userPrefs.SortOrder()),
		Profiles:  env.NewProfileLoader(),
		Palette:   langcolor.New(),
		Token:     env.Auth.Token,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    env.Logger,
	})
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
