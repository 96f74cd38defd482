package analysis

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

const (
	lastMinuteMinSnapshots = 5
	windowFrom             = 8  // minutes before the final snapshot
	windowTo               = 15 // minutes before the final snapshot
	minutesPerDay          = 24 * 60
)

var (
	hotPct  = decimal.NewFromInt(-15)
	warmPct = decimal.NewFromInt(-5)
	coldPct = decimal.NewFromInt(10)
)

// LastMinuteChanges compares the final snapshot with the one about ten
// minutes earlier. When no snapshot falls into the 8-15 minute window the
// 11th from last is used, or the middle one for short series. Levels are
// decided on the exact percentage, the reported one has two decimals.
func LastMinuteChanges(series []model.OddsSnapshot) []model.LastMinuteChange {
	if len(series) < lastMinuteMinSnapshots {
		return nil
	}
	last := series[len(series)-1]
	before, ok := findBefore(series)
	if !ok {
		return nil
	}

	numbers := entrantUnion(before, last)
	out := make([]model.LastMinuteChange, 0, len(numbers))
	for _, n := range numbers {
		b, f := lookup(before, n), lookup(last, n)
		c := model.LastMinuteChange{
			Number:     n,
			BeforeOdds: b,
			FinalOdds:  f,
			Level:      model.LevelUnknown,
		}
		if b.Valid && f.Valid && b.Decimal.IsPositive() && f.Decimal.IsPositive() {
			c.Change = Change(b, f)
			pct := PercentChange(b, f)
			c.Level = level(pct.Decimal)
			c.ChangePercent = reportedPercent(pct)
		}
		out = append(out, c)
	}
	return out
}

func level(pct decimal.Decimal) model.ChangeLevel {
	switch {
	case pct.LessThanOrEqual(hotPct):
		return model.LevelHot
	case pct.LessThanOrEqual(warmPct):
		return model.LevelWarm
	case pct.GreaterThanOrEqual(coldPct):
		return model.LevelCold
	default:
		return model.LevelStable
	}
}

func findBefore(series []model.OddsSnapshot) (model.OddsSnapshot, bool) {
	n := len(series)
	lastMin, lastOK := minuteOfDay(series[n-1].AnnouncedAt)
	if lastOK {
		for i := n - 2; i >= 0; i-- {
			m, ok := minuteOfDay(series[i].AnnouncedAt)
			if !ok {
				continue
			}
			diff := lastMin - m
			if diff < 0 {
				diff += minutesPerDay
			}
			if diff >= windowFrom && diff <= windowTo {
				return series[i], true
			}
		}
	}
	switch {
	case n > 10:
		return series[n-11], true
	case n > 3:
		return series[n/2], true
	}
	return model.OddsSnapshot{}, false
}

// minuteOfDay reads HHmm from a MMDDHHmm announcement time.
func minuteOfDay(announcedAt string) (int, bool) {
	if len(announcedAt) != 8 {
		return 0, false
	}
	hh, err1 := strconv.Atoi(announcedAt[4:6])
	mm, err2 := strconv.Atoi(announcedAt[6:8])
	if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}
