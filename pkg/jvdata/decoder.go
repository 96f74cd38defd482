// Package jvdata decodes JV-Data fixed-width records.
package jvdata

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keibacicd/jvdata-engine/pkg/model"
	"github.com/keibacicd/jvdata-engine/pkg/sjis"
)

// Status tells absent data apart from data that could not be decoded.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusMalformed:
		return "malformed"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result is the outcome of decoding one odds record.
// Record is only set for StatusOK.
type Result struct {
	Status Status
	Record *model.OddsRecord
	Reason string
}

func (r Result) OK() bool {
	return r.Status == StatusOK && r.Record != nil
}

func NotFound(reason string) Result {
	return Result{Status: StatusNotFound, Reason: reason}
}

func malformed(reason string) Result {
	return Result{Status: StatusMalformed, Reason: reason}
}

var crlf = strings.NewReplacer("\r", "", "\n", "")

// Decode parses a Shift-JIS encoded O1 record. It never fails loudly:
// anything that isn't a usable O1 record yields StatusMalformed.
func Decode(buf []byte) Result {
	text, err := sjis.Decode(buf)
	if err != nil {
		return malformed(err.Error())
	}
	rec := []rune(crlf.Replace(text))
	if len(rec) < MinO1Length {
		return malformed("record too short: " + strconv.Itoa(len(rec)))
	}
	if tag, _ := FieldRecordSpec.Extract(rec); tag != TagO1 {
		return malformed("unexpected record spec " + strconv.Quote(tag))
	}

	out := &model.OddsRecord{
		RaceID:      field(rec, FieldRaceID),
		DataKind:    field(rec, FieldDataKind),
		CreatedOn:   field(rec, FieldCreatedOn),
		Registered:  parseCount(field(rec, FieldRegistered)),
		Starters:    parseCount(field(rec, FieldStarters)),
		PostTime:    field(rec, FieldPostTime),
		AnnouncedAt: field(rec, FieldAnnouncedAt),
	}

	idx := map[string]int{}
	for i := range GroupWin.Count {
		block, ok := GroupWin.Block(rec, i)
		if !ok {
			break
		}
		number := field(block, WinNumber)
		if number == "" || number == "00" {
			continue
		}
		if _, dup := idx[number]; dup {
			continue
		}
		idx[number] = len(out.Entrants)
		out.Entrants = append(out.Entrants, model.EntrantOdds{
			Number:     number,
			Win:        ParseOdds(field(block, WinOdds)),
			Popularity: parseCount(field(block, WinPopularity)),
		})
	}
	if len(out.Entrants) == 0 {
		return malformed("no entrants")
	}

	for i := range GroupPlace.Count {
		block, ok := GroupPlace.Block(rec, i)
		if !ok {
			break
		}
		pos, ok := idx[field(block, PlaceNumber)]
		if !ok {
			continue
		}
		out.Entrants[pos].PlaceLow = ParseOdds(field(block, PlaceLow))
		out.Entrants[pos].PlaceHigh = ParseOdds(field(block, PlaceHigh))
	}
	return Result{Status: StatusOK, Record: out}
}

// DecodeRecord keeps the historic contract: malformed input is reported the
// same way as missing data.
func DecodeRecord(buf []byte) (*model.OddsRecord, bool) {
	res := Decode(buf)
	if !res.OK() {
		return nil, false
	}
	return res.Record, true
}

// ParseOdds converts a raw odds field holding tenths into a decimal.
// Zero, blank and non-numeric fields (scratched, not yet on sale) are null.
func ParseOdds(raw string) decimal.NullDecimal {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.New(int64(n), -1))
}

func parseCount(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func field(rec []rune, f Field) string {
	s, _ := f.Extract(rec)
	return strings.TrimSpace(s)
}
