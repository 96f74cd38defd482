package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

func nd(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func snap(announcedAt string, odds map[string]string) model.OddsSnapshot {
	s := model.OddsSnapshot{AnnouncedAt: announcedAt, Odds: map[string]decimal.Decimal{}}
	for k, v := range odds {
		s.Odds[k] = decimal.RequireFromString(v)
	}
	return s
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		baseline, current string
		want              model.Trend
	}{
		{"100", "120", model.TrendUp},
		{"120", "100", model.TrendDown},
		{"100", "100", model.TrendStable},
		{"3.5", "3.50", model.TrendStable},
		{"", "100", model.TrendUnknown},
		{"100", "", model.TrendUnknown},
		{"", "", model.TrendUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTrend(nd(tt.baseline), nd(tt.current)),
			"(%s,%s)", tt.baseline, tt.current)
	}
}

func TestPercentChange(t *testing.T) {
	got := PercentChange(nd("100"), nd("120"))
	require.True(t, got.Valid)
	assert.Equal(t, "20", got.Decimal.String())

	got = PercentChange(nd("3.0"), nd("2.0"))
	require.True(t, got.Valid)
	assert.True(t, got.Decimal.LessThan(decimal.RequireFromString("-33.333")), got.Decimal.String())
	assert.True(t, got.Decimal.GreaterThan(decimal.RequireFromString("-33.334")), got.Decimal.String())
	assert.Equal(t, "-33.33", reportedPercent(got).Decimal.String())

	assert.False(t, PercentChange(nd(""), nd("2.0")).Valid)
	assert.False(t, PercentChange(nd("0"), nd("2.0")).Valid)
	assert.False(t, PercentChange(nd("2.0"), nd("")).Valid)
}

func TestChanges(t *testing.T) {
	series := []model.OddsSnapshot{
		snap("01310900", map[string]string{"01": "3.5", "02": "5.0", "10": "12.0"}),
		snap("01311000", map[string]string{"01": "3.0"}),
		snap("01311500", map[string]string{"01": "2.8", "02": "5.0", "03": "8.1", "10": "15.0"}),
	}
	got := Changes(series)
	require.Len(t, got, 4)

	assert.Equal(t, []string{"01", "02", "03", "10"},
		[]string{got[0].Number, got[1].Number, got[2].Number, got[3].Number})

	assert.Equal(t, model.TrendDown, got[0].Trend)
	assert.Equal(t, "-0.7", got[0].Change.Decimal.String())
	assert.Equal(t, "-20", got[0].ChangePercent.Decimal.String())

	assert.Equal(t, model.TrendStable, got[1].Trend)
	assert.Equal(t, model.TrendUnknown, got[2].Trend)
	assert.False(t, got[2].FirstOdds.Valid)
	assert.False(t, got[2].ChangePercent.Valid)
	assert.Equal(t, model.TrendUp, got[3].Trend)
	assert.Equal(t, "25", got[3].ChangePercent.Decimal.String())
}

func TestChanges_TooShort(t *testing.T) {
	assert.Nil(t, Changes(nil))
	assert.Nil(t, Changes([]model.OddsSnapshot{snap("01310900", map[string]string{"01": "2.0"})}))
}
