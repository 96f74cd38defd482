// Package timeseries turns decoded odds snapshots into an ordered series.
package timeseries

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

// DisplayLimit is the maximum number of snapshots handed to charts.
const DisplayLimit = 50

// FromRecords builds a series ordered by announcement time. Identical
// timestamps are kept as separate observations. Records without an
// announcement time cannot be placed and are skipped.
func FromRecords(records []*model.OddsRecord) []model.OddsSnapshot {
	series := make([]model.OddsSnapshot, 0, len(records))
	for _, r := range records {
		if r == nil || r.AnnouncedAt == "" {
			continue
		}
		series = append(series, Snapshot(r))
	}
	slices.SortStableFunc(series, func(a, b model.OddsSnapshot) int {
		return cmp.Compare(a.AnnouncedAt, b.AnnouncedAt)
	})
	return series
}

// Snapshot reduces a record to its win odds.
func Snapshot(r *model.OddsRecord) model.OddsSnapshot {
	odds := make(map[string]decimal.Decimal, len(r.Entrants))
	for _, e := range r.Entrants {
		if e.Win.Valid {
			odds[e.Number] = e.Win.Decimal
		}
	}
	return model.OddsSnapshot{
		AnnouncedAt: r.AnnouncedAt,
		TimeLabel:   TimeLabel(r.AnnouncedAt),
		Odds:        odds,
	}
}

// TimeLabel converts MMDDHHmm into HH:mm. Shorter values are returned as is.
func TimeLabel(announcedAt string) string {
	if len(announcedAt) < 8 {
		return announcedAt
	}
	return announcedAt[4:6] + ":" + announcedAt[6:8]
}

// Decimate keeps every n-th snapshot, n = ceil(len/limit), and always the
// final one. The result never exceeds limit elements.
func Decimate(series []model.OddsSnapshot, limit int) []model.OddsSnapshot {
	if limit <= 0 || len(series) <= limit {
		return series
	}
	step := (len(series) + limit - 1) / limit
	last := len(series) - 1
	out := make([]model.OddsSnapshot, 0, limit)
	for i := 0; i < len(series); i += step {
		out = append(out, series[i])
	}
	if (last % step) != 0 {
		if len(out) == limit {
			out = out[:limit-1]
		}
		out = append(out, series[last])
	}
	return out
}
