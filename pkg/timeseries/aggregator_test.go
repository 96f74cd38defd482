package timeseries

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

func rec(announcedAt string, odds ...string) *model.OddsRecord {
	r := &model.OddsRecord{RaceID: "2026013105010211", AnnouncedAt: announcedAt}
	for i, o := range odds {
		e := model.EntrantOdds{Number: fmt.Sprintf("%02d", i+1)}
		if o != "" {
			e.Win = decimal.NewNullDecimal(decimal.RequireFromString(o))
		}
		r.Entrants = append(r.Entrants, e)
	}
	return r
}

func TestFromRecords(t *testing.T) {
	series := FromRecords([]*model.OddsRecord{
		rec("01311045", "3.0", "4.0"),
		rec("01310930", "2.5", ""),
		nil,
		rec("", "9.9"),
		rec("01311045", "3.1", "4.1"),
	})
	require.Len(t, series, 3)
	assert.Equal(t, "09:30", series[0].TimeLabel)
	assert.Equal(t, "01310930", series[0].AnnouncedAt)
	assert.Len(t, series[0].Odds, 1, "unpriced entrant dropped")
	assert.Equal(t, "10:45", series[1].TimeLabel)
	assert.Equal(t, "10:45", series[2].TimeLabel)
	// stable sort keeps input order for equal timestamps
	assert.True(t, series[1].Odds["01"].Equal(decimal.RequireFromString("3.0")))
	assert.True(t, series[2].Odds["01"].Equal(decimal.RequireFromString("3.1")))
}

func TestFromRecords_Empty(t *testing.T) {
	assert.Empty(t, FromRecords(nil))
}

func TestTimeLabel(t *testing.T) {
	assert.Equal(t, "15:40", TimeLabel("01311540"))
	assert.Equal(t, "1540", TimeLabel("1540"))
}

func makeSeries(n int) []model.OddsSnapshot {
	out := make([]model.OddsSnapshot, n)
	for i := range out {
		out[i] = model.OddsSnapshot{AnnouncedAt: fmt.Sprintf("0131%04d", i)}
	}
	return out
}

func TestDecimate(t *testing.T) {
	tests := []struct {
		n       int
		wantLen int
	}{
		{0, 0},
		{1, 1},
		{50, 50},
		{51, 26},
		{99, 50},
		{100, 50},
		{101, 35},
		{120, 41},
		{1000, 50},
		{1001, 49},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			series := makeSeries(tt.n)
			got := Decimate(series, DisplayLimit)
			assert.Len(t, got, tt.wantLen)
			assert.LessOrEqual(t, len(got), DisplayLimit)
			if tt.n > 0 {
				assert.Equal(t, series[tt.n-1], got[len(got)-1], "final snapshot kept")
				assert.Equal(t, series[0], got[0])
			}
			for i := 1; i < len(got); i++ {
				assert.Less(t, got[i-1].AnnouncedAt, got[i].AnnouncedAt)
			}
		})
	}
}
