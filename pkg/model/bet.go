package model

import (
	"bytes"
	"fmt"
	"strings"
)

// BetKind uses the TARGET bet type codes.
type BetKind int

const (
	BetWin   BetKind = 0 // tansho
	BetPlace BetKind = 1 // fukusho
)

func (k BetKind) String() string {
	switch k {
	case BetWin:
		return "win"
	case BetPlace:
		return "place"
	default:
		return fmt.Sprintf("BetKind(%d)", int(k))
	}
}

func (k BetKind) Valid() bool {
	return k == BetWin || k == BetPlace
}

// UnmarshalText accepts "win", "place" or the numeric code.
func (k *BetKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "win", "tansho", "0":
		*k = BetWin
	case "place", "fukusho", "1":
		*k = BetPlace
	default:
		return fmt.Errorf("unsupported bet kind %q", string(text))
	}
	return nil
}

func (k BetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalJSON accepts both the string form and the numeric code.
func (k *BetKind) UnmarshalJSON(b []byte) error {
	return k.UnmarshalText(bytes.Trim(b, `"`))
}

// BetInstruction is a single-entrant bet to be exported for the wagering tool.
type BetInstruction struct {
	RaceID  string  `json:"raceId" yaml:"raceId"`
	Kind    BetKind `json:"betType" yaml:"betType"`
	Entrant int     `json:"umaban" yaml:"umaban"`
	Stake   int     `json:"amount" yaml:"amount"` // yen
}
