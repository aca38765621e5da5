package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/gitlook/internal/app"
	"github.com/five82/gitlook/internal/github"
)

func newUserCmd(opts *app.Options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "user <login>",
		Short: "Print a user's profile and the repositories they own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			env, err := app.Setup(*opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			p, err := env.NewProfileLoader().Load(cmd.Context(), env.Auth.Token, args[0])
			if err != nil {
				return fmt.Errorf("load %s: %s", args[0], github.Message(err))
			}
			return writeProfile(cmd.OutOrStdout(), format, p)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}
