package analysis

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

func decimals(vals ...string) []decimal.Decimal {
	return lo.Map(vals, func(v string, _ int) decimal.Decimal {
		return decimal.RequireFromString(v)
	})
}

func TestClassifyOdds(t *testing.T) {
	tests := []struct {
		name string
		odds []string
		want model.Pattern
	}{
		{"single favorite", []string{"1.8", "5.0", "9.0"}, model.PatternSingleFavorite},
		{"single favorite boundary gap", []string{"1.6", "4.0", "9.0"}, model.PatternSingleFavorite},
		{"favorite gap too small", []string{"1.9", "4.7", "30", "40"}, model.PatternNormal},
		{"triple favorite", []string{"4.0", "7.0", "9.0", "20.0"}, model.PatternTripleFavorite},
		{"triple needs a fourth", []string{"2.0", "3.0", "4.0"}, model.PatternNormal},
		{"triple gap boundary", []string{"4.0", "7.0", "9.0", "16.2"}, model.PatternTripleFavorite},
		{"congested", []string{"3.0", "5.0", "10.0", "12.0", "14.0"}, model.PatternCongestedFavorites},
		{"wide open", []string{"6.0", "8.0", "10.0"}, model.PatternWideOpen},
		{"normal", []string{"2.0", "3.0", "4.0"}, model.PatternNormal},
		{"too few", []string{"1.1", "9.0"}, model.PatternNormal},
		{"empty", nil, model.PatternNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOdds(decimals(tt.odds...))
			assert.Equal(t, tt.want, got.Pattern)
			assert.NotEmpty(t, got.Label)
		})
	}
}

func TestClassifyOdds_CongestedDescription(t *testing.T) {
	got := ClassifyOdds(decimals("3.0", "5.0", "10.0", "12.0", "14.0", "40.0"))
	assert.Equal(t, "5頭が拮抗", got.Description)
}

func TestAnalyzePattern(t *testing.T) {
	entrants := []model.EntrantOdds{
		{Number: "03", Win: nd("9.0")},
		{Number: "01", Win: nd("5.0")},
		{Number: "02"},
		{Number: "07", Win: nd("1.8")},
	}
	got := AnalyzePattern(entrants)
	assert.Equal(t, model.PatternSingleFavorite, got.Pattern)
	assert.Equal(t, "1強", got.Label)
	assert.Equal(t, "07が断然人気", got.Description)

	// input order untouched
	assert.Equal(t, "03", entrants[0].Number)
}

func TestAnalyzeSnapshot(t *testing.T) {
	got := AnalyzeSnapshot(snap("01311500", map[string]string{"01": "6.0", "02": "8.0", "03": "10.0"}))
	assert.Equal(t, model.PatternWideOpen, got.Pattern)
}
