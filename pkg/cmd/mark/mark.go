package mark

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/cmd/cmdutil"
	"github.com/keibacicd/jvdata-engine/pkg/config"
	"github.com/keibacicd/jvdata-engine/pkg/markstore"
	"github.com/keibacicd/jvdata-engine/pkg/model"
)

var (
	markSet  int
	marksArg string
)

func NewMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "commands to read and write TARGET horse marks",
	}
	cmd.PersistentFlags().IntVar(&markSet, "set", 1, "mark set (1-8)")

	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newClearCmd())
	return cmd
}

func newStore() *markstore.Store {
	return markstore.New(config.MyDataPath())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get raceID",
		Short: "show the marks of a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := markstore.KeyFromRaceID(args[0], markSet)
			if err != nil {
				return err
			}
			marks, err := newStore().Read(cmd.Context(), k)
			if err != nil {
				return err
			}
			if marks == nil {
				marks = &model.RaceMarks{HorseMarks: map[int]model.Mark{}}
			}
			return cmdutil.Print(cmd.OutOrStdout(), config.OutputFormat, marks)
		},
	}
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set raceID [entrant mark]",
		Short: "set the mark of one entrant or, with --marks, of several",
		Long: "Set TARGET horse marks. Valid marks: " + markGlyphs() +
			". An empty mark (5=) clears the slot.",
		Example: `  jvd mark set 2026013105010211 5 ◎
  jvd mark set 2026013105010211 --marks 1=◎,5=○,7=穴`,
		Args: func(cmd *cobra.Command, args []string) error {
			if marksArg != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := markstore.KeyFromRaceID(args[0], markSet)
			if err != nil {
				return err
			}
			arg := marksArg
			if arg == "" {
				arg = args[1] + "=" + args[2]
			}
			marks, err := ParseMarks(arg)
			if err != nil {
				return err
			}
			if err := newStore().WriteBatch(cmd.Context(), k, marks); err != nil {
				return err
			}
			log.GetFromContext(cmd.Context()).Info("marks written",
				log.String("raceId", args[0]), log.Int("count", len(marks)))
			return nil
		},
	}
	cmd.Flags().StringVar(&marksArg, "marks", "", "comma separated entrant=mark pairs")
	return cmd
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear raceID entrant...",
		Short: "remove the marks of entrants",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := markstore.KeyFromRaceID(args[0], markSet)
			if err != nil {
				return err
			}
			marks := map[int]model.Mark{}
			for _, a := range args[1:] {
				n, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid entrant %q", a)
				}
				marks[n] = model.MarkNone
			}
			return newStore().WriteBatch(cmd.Context(), k, marks)
		},
	}
}

// ParseMarks parses "1=◎,5=○". An empty mark ("3=") clears the entrant.
func ParseMarks(s string) (map[int]model.Mark, error) {
	ret := map[int]model.Mark{}
	var errs []error
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		num, glyph, ok := strings.Cut(part, "=")
		if !ok {
			errs = append(errs, fmt.Errorf("%q: expected entrant=mark", part))
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			errs = append(errs, fmt.Errorf("%q: invalid entrant", part))
			continue
		}
		m, err := model.ParseMark(strings.TrimSpace(glyph))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := ret[n]; dup {
			errs = append(errs, fmt.Errorf("entrant %d given twice", n))
			continue
		}
		ret[n] = m
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return ret, nil
}

// markGlyphs lists the accepted marks for help texts.
func markGlyphs() string {
	glyphs := lo.FilterMap(model.ValidMarks(), func(m model.Mark, _ int) (string, bool) {
		return string(m), m != model.MarkNone
	})
	return strings.Join(glyphs, " ")
}
