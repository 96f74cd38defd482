package odds

import (
	"github.com/spf13/cobra"
)

func NewOddsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odds",
		Short: "commands to query realtime odds snapshots",
	}

	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewSeriesCmd())
	cmd.AddCommand(NewRacesCmd())
	cmd.AddCommand(NewWatchCmd())

	return cmd
}
