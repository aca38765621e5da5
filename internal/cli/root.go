package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/gitlook/internal/app"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root command. Without a subcommand it starts the TUI.
func NewRootCmd(version string) *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:           "gitlook",
		Short:         "Browse GitHub users and their repositories from the terminal",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/gitlook/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/gitlook/prefs.toml)")
	flags.StringVar(&opts.CredentialsPath, "credentials", "", "token file (default ~/.config/gitlook/credentials.toml)")
	flags.StringVar(&opts.Token, "token", "", "GitHub personal access token (overrides GITLOOK_TOKEN, GITHUB_TOKEN and the stored token)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newUsersCmd(&opts),
		newUserCmd(&opts),
		newTokenCmd(&opts),
		newLogsCmd(&opts),
	)
	return cmd
}

const rootCmdExample = `  # Browse users interactively
  gitlook

  # Print the first two pages of users as JSON
  gitlook users --pages 2 --output json

  # Show a profile and its repositories
  gitlook user octocat

  # Store a personal access token (prompts without echo on a terminal)
  gitlook token set`
