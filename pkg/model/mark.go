package model

import (
	"errors"
	"fmt"
)

var ErrUnknownMark = errors.New("unknown mark")

// Mark is one of the TARGET horse mark glyphs. The empty mark means "no mark".
type Mark string

const (
	MarkNone   Mark = ""
	MarkHonmei Mark = "◎"
	MarkTaikou Mark = "○"
	MarkTanana Mark = "▲"
	MarkRenka  Mark = "△"
	MarkStar   Mark = "★"
	MarkAna    Mark = "穴"
)

var validMarks = []Mark{MarkHonmei, MarkTaikou, MarkTanana, MarkRenka, MarkStar, MarkAna, MarkNone}

// ValidMarks lists the closed set of glyphs accepted by the mark store.
func ValidMarks() []Mark {
	return append([]Mark(nil), validMarks...)
}

func ParseMark(s string) (Mark, error) {
	for _, m := range validMarks {
		if string(m) == s {
			return m, nil
		}
	}
	return MarkNone, fmt.Errorf("%w: %q", ErrUnknownMark, s)
}

// RaceMarks holds the marks of one race record in a mark file.
// Entrants without a mark are absent from HorseMarks.
type RaceMarks struct {
	RaceMark   string       `json:"raceMark"`
	ColorCode  string       `json:"colorCode"`
	HorseMarks map[int]Mark `json:"horseMarks"`
}
