package model

// Venue is one of the ten JRA racecourses.
type Venue struct {
	Code  string // JV code "01".."10"
	Name  string // full name, e.g. 東京
	Glyph string // single character used in TARGET file names
}

var venues = []Venue{
	{"01", "札幌", "札"},
	{"02", "函館", "函"},
	{"03", "福島", "福"},
	{"04", "新潟", "新"},
	{"05", "東京", "東"},
	{"06", "中山", "中"},
	{"07", "中京", "名"},
	{"08", "京都", "京"},
	{"09", "阪神", "阪"},
	{"10", "小倉", "小"},
}

func VenueByCode(code string) (Venue, bool) {
	for _, v := range venues {
		if v.Code == code {
			return v, true
		}
	}
	return Venue{}, false
}

// LookupVenue accepts a JV code, a full name or a glyph.
func LookupVenue(s string) (Venue, bool) {
	for _, v := range venues {
		if v.Code == s || v.Name == s || v.Glyph == s {
			return v, true
		}
	}
	return Venue{}, false
}
