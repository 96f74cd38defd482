package bet

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keibacicd/jvdata-engine/pkg/betexport"
	"github.com/keibacicd/jvdata-engine/pkg/cmd/cmdutil"
	"github.com/keibacicd/jvdata-engine/pkg/config"
	"github.com/keibacicd/jvdata-engine/pkg/model"
)

func NewBetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bet",
		Short: "commands to export bet instructions for TARGET",
	}
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newPDCmd())
	cmd.AddCommand(newPDClearCmd())
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export file",
		Short: "write FF<date>_<time>.CSV files from a YAML or JSON list of bets (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bets, err := ReadBets(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res, err := betexport.NewExporter(config.MyDataPath()).Export(cmd.Context(), bets)
			if res != nil {
				if perr := cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func newPDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pd file",
		Short: "add bets to the monthly PD<yyyymm>.CSV files (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bets, err := ReadBets(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res, err := betexport.NewPDWriter(config.MyDataPath()).Write(cmd.Context(), bets)
			if res != nil {
				if perr := cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func newPDClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pd-clear raceID...",
		Short: "remove races from the PD files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := betexport.NewPDWriter(config.MyDataPath()).Clear(cmd.Context(), args)
			if err != nil {
				return err
			}
			return cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, map[string]int{"cleared": n})
		},
	}
}

// ReadBets decodes a YAML (or JSON) list of bet instructions from a file,
// or from stdin if name is "-".
func ReadBets(stdin io.Reader, name string) ([]model.BetInstruction, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var bets []model.BetInstruction
	if err := yaml.NewDecoder(r).Decode(&bets); err != nil {
		if err == io.EOF {
			return nil, betexport.ErrEmptyBatch
		}
		return nil, fmt.Errorf("decode bets: %w", err)
	}
	return bets, nil
}
