// Package basedata builds sample JV-Data records and RT_DATA directory
// trees for tests.
package basedata

import (
	"fmt"
	"strings"

	"gotest.tools/v3/fs"

	"github.com/keibacicd/jvdata-engine/pkg/sjis"
)

const (
	SampleRaceID = "2026013105010211"
	SampleDate   = "20260131"
)

// O1Builder assembles an O1 record character by character.
type O1Builder struct {
	rec []rune
	win int // next free win slot
}

// NewO1 returns a builder with all 28 win and place slots unused ("00").
func NewO1(raceID, announcedAt string) *O1Builder {
	var sb strings.Builder
	sb.WriteString("O1")
	sb.WriteString("1")
	sb.WriteString("20260131")
	sb.WriteString(fmt.Sprintf("%-16s", raceID))
	sb.WriteString("16")
	sb.WriteString("16")
	sb.WriteString("1540")
	sb.WriteString(fmt.Sprintf("%-8s", announcedAt))
	for range 28 {
		sb.WriteString("00000000")
	}
	for range 28 {
		sb.WriteString("000000000000")
	}
	return &O1Builder{rec: []rune(sb.String())}
}

func (b *O1Builder) put(offset int, s string) {
	copy(b.rec[offset:], []rune(s))
}

// WinSlot writes raw win block content into slot i.
func (b *O1Builder) WinSlot(i int, number, odds, rank string) *O1Builder {
	base := 43 + i*8
	b.put(base, fmt.Sprintf("%-2s", number))
	b.put(base+2, fmt.Sprintf("%-4s", odds))
	b.put(base+6, fmt.Sprintf("%-2s", rank))
	return b
}

// PlaceSlot writes raw place block content into slot i.
func (b *O1Builder) PlaceSlot(i int, number, low, high string) *O1Builder {
	base := 267 + i*12
	b.put(base, fmt.Sprintf("%-2s", number))
	b.put(base+2, fmt.Sprintf("%-4s", low))
	b.put(base+6, fmt.Sprintf("%-4s", high))
	b.put(base+10, "00")
	return b
}

// Entrant fills the next free slot. Odds are given in tenths (35 = 3.5).
func (b *O1Builder) Entrant(number string, winTenths, rank, lowTenths, highTenths int) *O1Builder {
	i := b.win
	b.win++
	b.WinSlot(i, number, fmt.Sprintf("%04d", winTenths), fmt.Sprintf("%02d", rank))
	b.PlaceSlot(i, number, fmt.Sprintf("%04d", lowTenths), fmt.Sprintf("%04d", highTenths))
	return b
}

// BlankFrom overwrites everything from offset to the end of the record with
// spaces, the shape of unused slots in a race without place sales.
func (b *O1Builder) BlankFrom(offset int) *O1Builder {
	for i := offset; i < len(b.rec); i++ {
		b.rec[i] = ' '
	}
	return b
}

// Runes returns a copy of the record characters.
func (b *O1Builder) Runes() []rune {
	return append([]rune(nil), b.rec...)
}

// Bytes returns the Shift-JIS encoded record terminated by CRLF.
func (b *O1Builder) Bytes() []byte {
	out, err := sjis.Encode(string(b.rec) + "\r\n")
	if err != nil {
		panic(err)
	}
	return out
}

// Truncated returns the first n characters of the record, encoded.
func (b *O1Builder) Truncated(n int) []byte {
	out, err := sjis.Encode(string(b.rec[:n]))
	if err != nil {
		panic(err)
	}
	return out
}

// SampleO1 is a 5 runner field: 01 favourite at 1.8.
func SampleO1(announcedAt string) *O1Builder {
	return NewO1(SampleRaceID, announcedAt).
		Entrant("01", 18, 1, 11, 13).
		Entrant("02", 50, 2, 15, 22).
		Entrant("03", 90, 3, 21, 35).
		Entrant("04", 250, 4, 40, 62).
		Entrant("05", 410, 5, 70, 98)
}

// SnapshotName is the RT_DATA file name of snapshot seq for raceID.
func SnapshotName(raceID string, seq int) string {
	return fmt.Sprintf("RT%s%d.DAT", raceID, seq)
}

// SnapshotFile is a fs.PathOp creating one snapshot file.
func SnapshotFile(raceID string, seq int, data []byte) fs.PathOp {
	return fs.WithFile(SnapshotName(raceID, seq), "", fs.WithBytes(data))
}

// DayDir places ops below <yyyy>/<mmdd> for the given date.
func DayDir(date string, ops ...fs.PathOp) fs.PathOp {
	return fs.WithDir(date[:4], fs.WithDir(date[4:8], ops...))
}
