// Package markstore reads and writes TARGET horse mark files (UM*.DAT).
//
// A mark file covers one meeting of one venue: 96 records of 44 bytes,
// 8 racing days with 12 races each. Record layout:
//
//	0      reserved
//	1      color code
//	2-5    race mark (Shift-JIS)
//	6-41   18 entrant slots of 2 bytes
//	42-43  CRLF
package markstore

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/keibacicd/jvdata-engine/pkg/model"
)

const (
	RecordSize     = 44
	DaysPerMeeting = 8
	RacesPerDay    = 12
	RecordsPerFile = DaysPerMeeting * RacesPerDay
	FileSize       = RecordsPerFile * RecordSize
	MaxEntrants    = 18
	MarkSets       = 8

	colorOffset    = 1
	raceMarkOffset = 2
	raceMarkLen    = 4
	slotOffset     = 6
	slotLen        = 2
)

var (
	ErrInvalidKey     = errors.New("invalid race key")
	ErrInvalidEntrant = errors.New("entrant number out of range")
	ErrEmptyBatch     = errors.New("no marks given")
)

var blank = [slotLen]byte{0x20, 0x20}

// byte pairs as written by TARGET; ★ uses the NEC extension 0x8756
var markBytes = map[model.Mark][slotLen]byte{
	model.MarkHonmei: {0x81, 0x9d},
	model.MarkTaikou: {0x81, 0x9b},
	model.MarkTanana: {0x81, 0xa3},
	model.MarkRenka:  {0x81, 0xa2},
	model.MarkStar:   {0x87, 0x56},
	model.MarkAna:    {0x8c, 0x8a},
	model.MarkNone:   blank,
}

var bytesMark = func() map[[slotLen]byte]model.Mark {
	ret := make(map[[slotLen]byte]model.Mark, len(markBytes))
	for m, b := range markBytes {
		ret[b] = m
	}
	return ret
}()

// RaceKey addresses one race record in one mark set.
type RaceKey struct {
	Year    int    // four digit year
	Kai     int    // meeting number
	Venue   string // JV code, full name or glyph
	Day     int    // racing day within the meeting (1-8)
	Race    int    // race number (1-12)
	MarkSet int    // 1-8, 0 means 1
}

// KeyFromRaceID derives the record address of a 16 digit race id.
func KeyFromRaceID(raceID string, markSet int) (RaceKey, error) {
	id, err := model.ParseRaceID(raceID)
	if err != nil {
		return RaceKey{}, err
	}
	k := RaceKey{
		Year:    id.Year,
		Kai:     id.Kai,
		Venue:   id.Venue,
		Day:     id.Nichi,
		Race:    id.Race,
		MarkSet: markSet,
	}
	return k, k.Validate()
}

func (k RaceKey) set() int {
	if k.MarkSet == 0 {
		return 1
	}
	return k.MarkSet
}

func (k RaceKey) Validate() error {
	if _, ok := model.LookupVenue(k.Venue); !ok {
		return fmt.Errorf("%w: unknown venue %q", ErrInvalidKey, k.Venue)
	}
	switch {
	case k.Year < 1 || k.Year > 9999:
		return fmt.Errorf("%w: year %d", ErrInvalidKey, k.Year)
	case k.Kai < 1 || k.Kai > 99:
		return fmt.Errorf("%w: kai %d", ErrInvalidKey, k.Kai)
	case k.Day < 1 || k.Day > DaysPerMeeting:
		return fmt.Errorf("%w: day %d not in 1-%d", ErrInvalidKey, k.Day, DaysPerMeeting)
	case k.Race < 1 || k.Race > RacesPerDay:
		return fmt.Errorf("%w: race %d not in 1-%d", ErrInvalidKey, k.Race, RacesPerDay)
	case k.set() < 1 || k.set() > MarkSets:
		return fmt.Errorf("%w: mark set %d not in 1-%d", ErrInvalidKey, k.MarkSet, MarkSets)
	}
	return nil
}

// FileName returns UM<yy><kai><glyph>.DAT for a validated key.
func (k RaceKey) FileName() string {
	v, _ := model.LookupVenue(k.Venue)
	return fmt.Sprintf("UM%02d%d%s.DAT", k.Year%100, k.Kai, v.Glyph)
}

// MarkSetDir returns the directory of a mark set. Set 1 lives directly in
// root, sets 2-8 in UmaMark<n>.
func MarkSetDir(root string, set int) string {
	if set <= 1 {
		return root
	}
	return filepath.Join(root, fmt.Sprintf("UmaMark%d", set))
}

func RecordIndex(day, race int) int {
	return (day-1)*RacesPerDay + (race - 1)
}

func RecordOffset(day, race int) int {
	return RecordIndex(day, race) * RecordSize
}

// SlotOffset is the file offset of the 2 byte mark slot of an entrant.
func SlotOffset(day, race, entrant int) int {
	return RecordOffset(day, race) + slotOffset + (entrant-1)*slotLen
}

// blankFile returns an empty mark file: spaces with CRLF record terminators.
func blankFile() []byte {
	buf := make([]byte, FileSize)
	for i := range buf {
		buf[i] = 0x20
	}
	for i := range RecordsPerFile {
		buf[i*RecordSize+RecordSize-2] = '\r'
		buf[i*RecordSize+RecordSize-1] = '\n'
	}
	return buf
}
