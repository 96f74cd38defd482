// Package betexport writes bet instructions in the CSV formats read by the
// TARGET wagering tool. All files are Shift-JIS encoded with CRLF line ends.
package betexport

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/keibacicd/jvdata-engine/pkg/model"
	"github.com/keibacicd/jvdata-engine/pkg/sjis"
)

const (
	MinStakeUnit = 100
	MaxEntrant   = 18
)

var (
	ErrEmptyBatch = errors.New("no bet instructions")
	ErrInvalidBet = errors.New("invalid bet instruction")
)

// Validate checks every instruction and reports all violations at once.
func Validate(bets []model.BetInstruction) error {
	if len(bets) == 0 {
		return ErrEmptyBatch
	}
	var errs []error
	for i, b := range bets {
		invalid := func(format string, args ...any) {
			errs = append(errs, fmt.Errorf("%w #%d: %s", ErrInvalidBet, i+1, fmt.Sprintf(format, args...)))
		}
		if len(b.RaceID) != model.RaceIDLen {
			invalid("race id %q must have %d characters", b.RaceID, model.RaceIDLen)
		} else if !model.IsDate(b.RaceID[:8]) {
			invalid("race id %q does not start with a date", b.RaceID)
		}
		if b.Entrant < 1 || b.Entrant > MaxEntrant {
			invalid("entrant %d not in 1-%d", b.Entrant, MaxEntrant)
		}
		if b.Stake <= 0 || b.Stake%MinStakeUnit != 0 {
			invalid("stake %d is not a positive multiple of %d", b.Stake, MinStakeUnit)
		}
		if !b.Kind.Valid() {
			invalid("unsupported bet kind %s", b.Kind)
		}
	}
	return errors.Join(errs...)
}

// EncodedFile is the content of one FF file.
type EncodedFile struct {
	Date string // yyyymmdd of the races
	Bets int
	Data []byte // Shift-JIS
}

// Encode validates the batch and renders one file per race date, ordered
// by date. Instructions keep their input order within a file.
func Encode(bets []model.BetInstruction) ([]EncodedFile, error) {
	if err := Validate(bets); err != nil {
		return nil, err
	}
	byDate := lo.GroupBy(bets, func(b model.BetInstruction) string {
		return b.RaceID[:8]
	})
	ret := make([]EncodedFile, 0, len(byDate))
	for _, date := range slices.Sorted(maps.Keys(byDate)) {
		var sb strings.Builder
		for _, b := range byDate[date] {
			sb.WriteString(Line(b))
			sb.WriteString("\r\n")
		}
		data, err := sjis.Encode(sb.String())
		if err != nil {
			return nil, err
		}
		ret = append(ret, EncodedFile{Date: date, Bets: len(byDate[date]), Data: data})
	}
	return ret, nil
}

// Line renders the 12 fields of one instruction without line terminator:
// race id, void flag, kind, entrant, 2nd and 3rd selection, stake, odds,
// payout, memo and two reserved fields.
func Line(b model.BetInstruction) string {
	fields := []string{
		b.RaceID,
		"0",
		strconv.Itoa(int(b.Kind)),
		strconv.Itoa(b.Entrant),
		"0",
		"0",
		strconv.Itoa(b.Stake),
		"0.0",
		"0",
		"",
		"",
		"",
	}
	return strings.Join(fields, ",")
}
