package odds

import (
	"github.com/spf13/cobra"

	"github.com/keibacicd/jvdata-engine/pkg/cmd/cmdutil"
	"github.com/keibacicd/jvdata-engine/pkg/config"
)

func NewRacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "races yyyymmdd",
		Short: "race ids having odds snapshots on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := cmdutil.NewOddsService().RacesWithOdds(args[0])
			if err != nil {
				return err
			}
			if ids == nil {
				ids = []string{}
			}
			return cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, ids)
		},
	}
	return cmd
}
