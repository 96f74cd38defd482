package model

import (
	"github.com/shopspring/decimal"
)

// EntrantOdds holds the published odds of one entrant in an O1 record.
// Nullable odds use decimal.NullDecimal (Valid=false means unpublished or
// scratched).
type EntrantOdds struct {
	Number     string              `json:"umaban"`
	Win        decimal.NullDecimal `json:"winOdds"`
	PlaceLow   decimal.NullDecimal `json:"placeOddsMin"`
	PlaceHigh  decimal.NullDecimal `json:"placeOddsMax"`
	Popularity *int                `json:"ninki"`
}

// OddsRecord is one decoded O1 snapshot.
type OddsRecord struct {
	RaceID      string        `json:"raceId"`
	DataKind    string        `json:"dataKind"`
	CreatedOn   string        `json:"createdOn"`   // yyyymmdd
	Registered  *int          `json:"registered"`  // number of registered entrants
	Starters    *int          `json:"starters"`    // number of starters
	PostTime    string        `json:"postTime"`    // HHmm
	AnnouncedAt string        `json:"announcedAt"` // MMDDHHmm
	Entrants    []EntrantOdds `json:"horses"`
}

// OddsSnapshot is one element of an odds time-series. Only win odds are kept;
// entrants without odds are absent from the map.
type OddsSnapshot struct {
	AnnouncedAt string                     `json:"happyoTime"`
	TimeLabel   string                     `json:"timeLabel"` // HH:mm
	Odds        map[string]decimal.Decimal `json:"odds"`
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendStable  Trend = "stable"
	TrendUnknown Trend = "unknown"
)

// OddsChangeInfo compares the first and the last observed win odds.
type OddsChangeInfo struct {
	Number        string              `json:"umaban"`
	FirstOdds     decimal.NullDecimal `json:"firstOdds"`
	LastOdds      decimal.NullDecimal `json:"lastOdds"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"changePercent"`
	Trend         Trend               `json:"trend"`
}

type Pattern string

const (
	PatternSingleFavorite     Pattern = "single-favorite"
	PatternTripleFavorite     Pattern = "triple-favorite"
	PatternCongestedFavorites Pattern = "congested-favorites"
	PatternWideOpen           Pattern = "wide-open"
	PatternNormal             Pattern = "normal"
)

// RaceOddsAnalysis classifies the whole field based on the latest snapshot.
type RaceOddsAnalysis struct {
	Pattern     Pattern `json:"pattern"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

type ChangeLevel string

const (
	LevelHot     ChangeLevel = "hot"  // odds dropped sharply right before close
	LevelWarm    ChangeLevel = "warm" // odds dropped moderately
	LevelCold    ChangeLevel = "cold" // odds drifted
	LevelStable  ChangeLevel = "stable"
	LevelUnknown ChangeLevel = "unknown"
)

// LastMinuteChange compares the final odds with the odds about ten minutes
// earlier.
type LastMinuteChange struct {
	Number        string              `json:"umaban"`
	BeforeOdds    decimal.NullDecimal `json:"beforeOdds"`
	FinalOdds     decimal.NullDecimal `json:"finalOdds"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"changePercent"`
	Level         ChangeLevel         `json:"level"`
}
