package jvdata

// Field is a fixed-width field within a record or within a repeating block.
// Offsets count characters of the Shift-JIS decoded record.
type Field struct {
	Name   string
	Offset int
	Length int
}

// End returns the exclusive end offset.
func (f Field) End() int {
	return f.Offset + f.Length
}

// Extract returns the raw field content of rec. ok is false when the
// record is too short to contain the field.
func (f Field) Extract(rec []rune) (s string, ok bool) {
	if f.Offset < 0 || f.End() > len(rec) {
		return "", false
	}
	return string(rec[f.Offset:f.End()]), true
}

// Group is a repeating group of fixed-size blocks.
type Group struct {
	Name      string
	Offset    int
	BlockSize int
	Count     int
}

// Block returns the i-th block of the group. ok is false when the block
// would read past the end of rec.
func (g Group) Block(rec []rune, i int) (block []rune, ok bool) {
	start := g.Offset + i*g.BlockSize
	end := start + g.BlockSize
	if i < 0 || i >= g.Count || end > len(rec) {
		return nil, false
	}
	return rec[start:end], true
}

// End returns the exclusive end offset of the last block.
func (g Group) End() int {
	return g.Offset + g.BlockSize*g.Count
}

// O1 (win/place/bracket odds) record layout.
const (
	TagO1       = "O1"
	MinO1Length = 270
	MaxEntrants = 28
)

var (
	FieldRecordSpec  = Field{"RecordSpec", 0, 2}
	FieldDataKind    = Field{"DataKubun", 2, 1}
	FieldCreatedOn   = Field{"MakeDate", 3, 8}
	FieldRaceID      = Field{"RaceID", 11, 16}
	FieldRegistered  = Field{"TorokuTosu", 27, 2}
	FieldStarters    = Field{"SyussoTosu", 29, 2}
	FieldPostTime    = Field{"HassoTime", 31, 4}
	FieldAnnouncedAt = Field{"HappyoTime", 35, 8}

	GroupWin   = Group{"OddsTansyo", 43, 8, MaxEntrants}
	GroupPlace = Group{"OddsFukusyo", 267, 12, MaxEntrants}

	// fields within a win block
	WinNumber     = Field{"Umaban", 0, 2}
	WinOdds       = Field{"Odds", 2, 4}
	WinPopularity = Field{"Ninki", 6, 2}

	// fields within a place block
	PlaceNumber = Field{"Umaban", 0, 2}
	PlaceLow    = Field{"OddsLow", 2, 4}
	PlaceHigh   = Field{"OddsHigh", 6, 4}
	PlaceRank   = Field{"Ninki", 10, 2}
)

// O1Layout lists the top level fields in record order.
func O1Layout() []Field {
	return []Field{
		FieldRecordSpec, FieldDataKind, FieldCreatedOn, FieldRaceID,
		FieldRegistered, FieldStarters, FieldPostTime, FieldAnnouncedAt,
	}
}
