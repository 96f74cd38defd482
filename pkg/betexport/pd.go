package betexport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/keibacicd/jvdata-engine/log"
	"github.com/keibacicd/jvdata-engine/pkg/metrics"
	"github.com/keibacicd/jvdata-engine/pkg/model"
	"github.com/keibacicd/jvdata-engine/pkg/sjis"
	"github.com/keibacicd/jvdata-engine/pkg/utils"
)

// PD rows: 118 race fields, the bet count, then 10 fields per bet.
const (
	pdHeaderFields = 118
	pdFieldStake   = 16
	pdFieldPayout  = 17
)

type (
	PDWriter struct {
		settings
		dir string
	}
	PDResult struct {
		Written int      `json:"written"`
		Skipped int      `json:"skipped"`
		Files   []string `json:"files"`
	}
)

// NewPDWriter maintains the monthly PD<yyyymm>.CSV files in dir.
func NewPDWriter(dir string, opts ...Option) *PDWriter {
	return &PDWriter{settings: newSettings(opts), dir: dir}
}

func (w *PDWriter) Path(yyyymm string) string {
	return filepath.Join(w.dir, "PD"+yyyymm+".CSV")
}

// Write adds one row per race. Races already present in the monthly file
// are left untouched and counted as skipped.
func (w *PDWriter) Write(ctx context.Context, bets []model.BetInstruction) (*PDResult, error) {
	if err := Validate(bets); err != nil {
		return nil, err
	}
	byRace := lo.GroupBy(bets, func(b model.BetInstruction) string { return b.RaceID })
	byMonth := lo.GroupBy(lo.Keys(byRace), func(id string) string { return id[:6] })

	ret := &PDResult{}
	for _, month := range slices.Sorted(maps.Keys(byMonth)) {
		p := w.Path(month)
		rows, err := readPD(p)
		if err != nil {
			return ret, err
		}
		written := 0
		for _, id := range byMonth[month] {
			if _, ok := rows[id]; ok {
				ret.Skipped++
				continue
			}
			rows[id] = PDRow(id, byRace[id])
			written++
		}
		if written > 0 {
			if err := writePD(p, rows); err != nil {
				return ret, err
			}
		}
		ret.Written += written
		ret.Files = append(ret.Files, p)
		metrics.BetsExported(ctx, "pd", written)
		w.l.Info("pd file updated",
			log.String("file", p), log.Int("written", written), log.Int("rows", len(rows)))
	}
	return ret, nil
}

// Clear removes the rows of the given races and returns the number of rows
// removed.
func (w *PDWriter) Clear(ctx context.Context, raceIDs []string) (int, error) {
	var errs []error
	for _, id := range raceIDs {
		if _, err := model.ParseRaceID(id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}
	byMonth := lo.GroupBy(lo.Uniq(raceIDs), func(id string) string { return id[:6] })
	cleared := 0
	for _, month := range slices.Sorted(maps.Keys(byMonth)) {
		p := w.Path(month)
		rows, err := readPD(p)
		if err != nil {
			return cleared, err
		}
		n := len(rows)
		for _, id := range byMonth[month] {
			delete(rows, id)
		}
		if len(rows) == n {
			continue
		}
		if err := writePD(p, rows); err != nil {
			return cleared, err
		}
		cleared += n - len(rows)
		log.GetFromContext(ctx).Debug("pd rows cleared",
			log.String("file", p), log.Int("cleared", n-len(rows)))
	}
	return cleared, nil
}

// PDRow renders the row of one race. Amounts are given in units of 100 yen.
func PDRow(raceID string, bets []model.BetInstruction) string {
	header := make([]string, pdHeaderFields)
	header[0] = raceID
	header[pdFieldStake] = strconv.Itoa(lo.SumBy(bets, func(b model.BetInstruction) int {
		return b.Stake / MinStakeUnit
	}))
	header[pdFieldPayout] = "0"

	fields := append(header, strconv.Itoa(len(bets)))
	for _, b := range bets {
		fields = append(fields,
			"0",                                // hit flag
			strconv.Itoa(int(b.Kind)),          // bet kind
			strconv.Itoa(b.Entrant),            // 1st selection
			"0",                                // 2nd selection
			"0",                                // 3rd selection
			strconv.Itoa(b.Stake/MinStakeUnit), // amount
			"0.0",                              // odds
			"",
			"",
			"0",
		)
	}
	return strings.Join(fields, ",")
}

// readPD maps race id to the raw row. A missing file yields an empty map.
func readPD(p string) (map[string]string, error) {
	rows := map[string]string{}
	buf, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rows, nil
		}
		return nil, fmt.Errorf("read pd file: %w", err)
	}
	text, err := sjis.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("decode pd file: %w", err)
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, _, _ := strings.Cut(line, ",")
		if len(id) == model.RaceIDLen {
			rows[id] = line
		}
	}
	return rows, nil
}

func writePD(p string, rows map[string]string) error {
	var sb strings.Builder
	for _, id := range slices.Sorted(maps.Keys(rows)) {
		sb.WriteString(rows[id])
		sb.WriteString("\r\n")
	}
	data, err := sjis.Encode(sb.String())
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(p, data, 0o644)
}
