package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/gitlook/internal/app"
	"github.com/five82/gitlook/internal/credentials"
	"github.com/five82/gitlook/internal/github"
)

func newTokenCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored GitHub personal access token",
	}
	cmd.AddCommand(
		newTokenSetCmd(opts),
		newTokenClearCmd(opts),
		newTokenStatusCmd(opts),
	)
	return cmd
}

func newTokenSetCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "set [token]",
		Short: "Store a token; prompts for it when not given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				var err error
				if token, err = readToken(cmd); err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("no token given; use 'gitlook token clear' to remove the stored token")
			}

			store := credentials.NewStore(opts.CredentialsPath)
			if err := store.Save(token); err != nil {
				return err
			}
			path, _ := store.Path()
			fmt.Fprintf(cmd.OutOrStdout(), "Token %s saved to %s\n", credentials.Mask(token), path)
			return nil
		},
	}
}

// readToken reads a token without echo from a terminal, otherwise the first
// line of stdin.
func readToken(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(f) {
		fmt.Fprint(cmd.ErrOrStderr(), "GitHub token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	return line, nil
}

func newTokenClearCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := credentials.NewStore(opts.CredentialsPath).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Stored token removed.")
			return nil
		},
	}
}

func newTokenStatusCmd(opts *app.Options) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which token gitlook will use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := credentials.NewStore(opts.CredentialsPath)
			res, err := credentials.Resolve(opts.Token, store)
			if err != nil {
				return err
			}

			path, _ := store.Path()
			switch res.Origin {
			case credentials.OriginFlag:
				fmt.Fprintf(cmd.OutOrStdout(), "Token %s (from --token)\n", credentials.Mask(res.Token))
			case credentials.OriginEnv:
				fmt.Fprintf(cmd.OutOrStdout(), "Token %s (from $%s)\n", credentials.Mask(res.Token), res.Env)
			case credentials.OriginStore:
				fmt.Fprintf(cmd.OutOrStdout(), "Token %s (from %s)\n", credentials.Mask(res.Token), path)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "No token configured; requests are unauthenticated and limited to 60 per hour.")
			}

			if !check {
				return nil
			}
			return checkToken(cmd, *opts, res.Token)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the token against the GitHub API")
	return cmd
}

// checkToken makes one minimal listing request with token.
func checkToken(cmd *cobra.Command, opts app.Options, token string) error {
	env, err := app.Setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.Client.FetchUsers(cmd.Context(), token, nil, 1); err != nil {
		if github.KindOf(err) == github.KindUnauthorized {
			return fmt.Errorf("token rejected: %s", github.Message(err))
		}
		return fmt.Errorf("check token: %s", github.Message(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "GitHub accepted the request.")
	return nil
}
