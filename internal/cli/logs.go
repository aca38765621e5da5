package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/gitlook/internal/app"
	"github.com/five82/gitlook/internal/config"
	"github.com/five82/gitlook/internal/logging"
)

func newLogsCmd(opts *app.Options) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the gitlook log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			records, err := logging.Tail(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No log records in %s\n", cfg.LogFile)
				return nil
			}
			return logging.Pretty(cmd.OutOrStdout(), records, logging.ParseLevel(level))
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of records to show")
	cmd.Flags().StringVar(&level, "level", "debug", "lowest level to show")
	return cmd
}
