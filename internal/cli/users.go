package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/gitlook/internal/app"
	"github.com/five82/gitlook/internal/listing"
)

func newUsersCmd(opts *app.Options) *cobra.Command {
	var (
		pages  int
		order  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Print GitHub users page by page",
		Example: `  # First page, sorted by username
  gitlook users

  # Three pages, Z to A, as YAML
  gitlook users --pages 3 --sort desc --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUsers(cmd, *opts, pages, order, output)
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	cmd.Flags().StringVar(&order, "sort", "asc", "username order: asc or desc")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func runUsers(cmd *cobra.Command, opts app.Options, pages int, order, output string) error {
	if pages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", pages)
	}
	sortOrder, err := listing.ParseSortOrder(order)
	if err != nil {
		return err
	}
	format, err := parseOutputFormat(output)
	if err != nil {
		return err
	}

	env, err := app.Setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	token := env.Auth.Token
	ctl := env.NewListing(sortOrder)

	snap := ctl.StartOrReset(ctx, token)
	for snap.Err == nil && snap.HasMore && snap.Pages < pages {
		loaded := snap.Pages
		snap = ctl.LoadNextPage(ctx, token)
		if snap.Pages == loaded {
			break
		}
	}
	if snap.Err != nil {
		return fmt.Errorf("list users: %s", snap.ErrorMessage)
	}

	return writeUsers(cmd.OutOrStdout(), format, snap.Items)
}
