package odds

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/cmd/cmdutil"
	"github.com/keibacicd/jvdata-engine/pkg/config"
)

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show raceID",
		Short: "latest odds of a race with field pattern and trends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := cmdutil.NewOddsService()
			ov, err := svc.Overview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ov == nil {
				log.GetFromContext(cmd.Context()).Info("no odds available",
					log.String("raceId", args[0]),
					log.Bool("rtData", svc.Available()))
				return fmt.Errorf("no odds for race %s", args[0])
			}
			return cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, ov)
		},
	}
	return cmd
}
