// Package analysis derives odds movements and field patterns from a
// time-series of odds snapshots.
package analysis

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

var hundred = decimal.NewFromInt(100)

const percentPlaces = 2

// ClassifyTrend compares the baseline with the current odds.
func ClassifyTrend(baseline, current decimal.NullDecimal) model.Trend {
	if !baseline.Valid || !current.Valid {
		return model.TrendUnknown
	}
	switch current.Decimal.Cmp(baseline.Decimal) {
	case 1:
		return model.TrendUp
	case -1:
		return model.TrendDown
	default:
		return model.TrendStable
	}
}

// Change returns current-baseline, null if either side is missing.
func Change(baseline, current decimal.NullDecimal) decimal.NullDecimal {
	if !baseline.Valid || !current.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(current.Decimal.Sub(baseline.Decimal))
}

// PercentChange returns (current-baseline)/baseline*100 at full division
// precision. It is undefined (null) for a missing or zero baseline.
func PercentChange(baseline, current decimal.NullDecimal) decimal.NullDecimal {
	if !baseline.Valid || !current.Valid || baseline.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	pct := current.Decimal.Sub(baseline.Decimal).
		Div(baseline.Decimal).
		Mul(hundred)
	return decimal.NewNullDecimal(pct)
}

// reportedPercent rounds a percentage to two places for the change reports.
// Classification always works on the unrounded value.
func reportedPercent(pct decimal.NullDecimal) decimal.NullDecimal {
	if !pct.Valid {
		return pct
	}
	return decimal.NewNullDecimal(pct.Decimal.Round(percentPlaces))
}

// Changes compares the first and the last snapshot of an ordered series for
// every entrant seen in either of them. Percentages are reported with two
// decimal places. Less than two snapshots carry no movement and yield nil.
func Changes(series []model.OddsSnapshot) []model.OddsChangeInfo {
	if len(series) < 2 {
		return nil
	}
	first, last := series[0], series[len(series)-1]
	numbers := entrantUnion(first, last)

	out := make([]model.OddsChangeInfo, 0, len(numbers))
	for _, n := range numbers {
		base, cur := lookup(first, n), lookup(last, n)
		out = append(out, model.OddsChangeInfo{
			Number:        n,
			FirstOdds:     base,
			LastOdds:      cur,
			Change:        Change(base, cur),
			ChangePercent: reportedPercent(PercentChange(base, cur)),
			Trend:         ClassifyTrend(base, cur),
		})
	}
	return out
}

func lookup(s model.OddsSnapshot, number string) decimal.NullDecimal {
	if v, ok := s.Odds[number]; ok {
		return decimal.NewNullDecimal(v)
	}
	return decimal.NullDecimal{}
}

// entrantUnion returns the entrant numbers of both snapshots sorted by
// their numeric value. Unparsable numbers sort last.
func entrantUnion(a, b model.OddsSnapshot) []string {
	numbers := lo.Uniq(append(lo.Keys(a.Odds), lo.Keys(b.Odds)...))
	slices.SortFunc(numbers, func(x, y string) int {
		return cmp.Or(cmp.Compare(entrantOrder(x), entrantOrder(y)), cmp.Compare(x, y))
	})
	return numbers
}

func entrantOrder(number string) int {
	n, err := strconv.Atoi(number)
	if err != nil || n == 0 {
		return 99
	}
	return n
}
