package odds

import (
	"github.com/spf13/cobra"

	"github.com/keibacicd/jvdata-engine/pkg/cmd/cmdutil"
	"github.com/keibacicd/jvdata-engine/pkg/config"
)

var full bool

func NewSeriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series raceID",
		Short: "odds time-series of a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := cmdutil.NewOddsService().Series(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if full {
				view.Snapshots = view.Full
				view.Displayed = len(view.Full)
			}
			return cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, view)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print every snapshot instead of the decimated series")
	return cmd
}
