package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

func TestLastMinuteChanges(t *testing.T) {
	series := []model.OddsSnapshot{
		snap("01311400", map[string]string{"01": "9.9"}),
		snap("01311430", map[string]string{"01": "5.0", "02": "4.0", "03": "10.0", "04": "3.0"}),
		snap("01311440", map[string]string{"01": "4.0"}),
		snap("01311445", map[string]string{"01": "4.0"}),
		snap("01311450", map[string]string{"01": "3.0", "02": "3.8", "03": "11.0", "04": "3.0", "05": "7.0"}),
	}
	got := LastMinuteChanges(series)
	require.Len(t, got, 5)

	byNum := map[string]model.LastMinuteChange{}
	for _, c := range got {
		byNum[c.Number] = c
	}
	// 14:40 is 10 minutes before 14:50 but only knows 01
	assert.Equal(t, model.LevelHot, byNum["01"].Level)
	assert.Equal(t, "-25", byNum["01"].ChangePercent.Decimal.String())
	assert.Equal(t, model.LevelUnknown, byNum["02"].Level)
	assert.Equal(t, model.LevelUnknown, byNum["05"].Level)
}

func TestLastMinuteChanges_Levels(t *testing.T) {
	series := []model.OddsSnapshot{
		snap("01311400", map[string]string{}),
		snap("01311405", map[string]string{}),
		snap("01311440", map[string]string{"01": "10.0", "02": "10.0", "03": "10.0", "04": "10.0", "05": "10.0"}),
		snap("01311445", map[string]string{}),
		snap("01311452", map[string]string{"01": "8.5", "02": "9.0", "03": "9.6", "04": "11.0", "05": "10.9"}),
	}
	got := LastMinuteChanges(series)
	require.Len(t, got, 5)
	assert.Equal(t, model.LevelHot, got[0].Level)
	assert.Equal(t, model.LevelWarm, got[1].Level)
	assert.Equal(t, model.LevelStable, got[2].Level)
	assert.Equal(t, model.LevelCold, got[3].Level)
	assert.Equal(t, model.LevelStable, got[4].Level)
}

func TestLastMinuteChanges_MidnightAndFallback(t *testing.T) {
	// 23:55 -> 00:05 is ten minutes across midnight
	series := []model.OddsSnapshot{
		snap("01312300", map[string]string{"01": "2.0"}),
		snap("01312355", map[string]string{"01": "4.0"}),
		snap("02010001", map[string]string{"01": "3.0"}),
		snap("02010003", map[string]string{"01": "3.0"}),
		snap("02010005", map[string]string{"01": "4.4"}),
	}
	got := LastMinuteChanges(series)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].BeforeOdds.Decimal.String())
	assert.Equal(t, model.LevelCold, got[0].Level)

	// no snapshot inside the window: middle element of a short series
	series[1] = snap("01312330", map[string]string{"01": "4.0"})
	got = LastMinuteChanges(series)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].BeforeOdds.Decimal.String())
}

func TestLastMinuteChanges_TooShort(t *testing.T) {
	assert.Nil(t, LastMinuteChanges(make([]model.OddsSnapshot, 4)))
}

func TestLastMinuteChanges_LevelUsesExactPercent(t *testing.T) {
	// 666.7 -> 566.7 is -14.9992%, reported as -15 but not hot
	series := []model.OddsSnapshot{
		snap("01311430", map[string]string{}),
		snap("01311435", map[string]string{}),
		snap("01311440", map[string]string{"01": "666.7"}),
		snap("01311445", map[string]string{}),
		snap("01311450", map[string]string{"01": "566.7"}),
	}
	got := LastMinuteChanges(series)
	require.Len(t, got, 1)
	assert.Equal(t, model.LevelWarm, got[0].Level)
	assert.Equal(t, "-15", got[0].ChangePercent.Decimal.String())
}
