package model

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidRaceID = errors.New("invalid race id")

// RaceIDLen is the length of a JV race id:
// yyyy mmdd venue(2) kai(2) nichi(2) race(2)
const RaceIDLen = 16

// RaceID is the decomposed form of a 16 digit JV race id.
type RaceID struct {
	Raw   string
	Year  int
	Month int
	Day   int
	Venue string // 2 digit JV venue code, e.g. "05"
	Kai   int    // meeting number within the year
	Nichi int    // racing day within the meeting (1-8)
	Race  int    // race number (1-12)
}

// ParseRaceID splits a 16 digit race id into its components.
func ParseRaceID(s string) (RaceID, error) {
	if len(s) != RaceIDLen {
		return RaceID{}, fmt.Errorf("%w: %q has length %d", ErrInvalidRaceID, s, len(s))
	}
	if !isDigits(s) {
		return RaceID{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidRaceID, s)
	}
	nums := make([]int, 0, 7)
	for _, r := range [][2]int{{0, 4}, {4, 6}, {6, 8}, {8, 10}, {10, 12}, {12, 14}, {14, 16}} {
		n, _ := strconv.Atoi(s[r[0]:r[1]])
		nums = append(nums, n)
	}
	return RaceID{
		Raw:   s,
		Year:  nums[0],
		Month: nums[1],
		Day:   nums[2],
		Venue: s[8:10],
		Kai:   nums[4],
		Nichi: nums[5],
		Race:  nums[6],
	}, nil
}

func (r RaceID) String() string {
	return r.Raw
}

// Date returns the yyyymmdd prefix.
func (r RaceID) Date() string {
	return r.Raw[:8]
}

func (r RaceID) VenueName() string {
	if v, ok := VenueByCode(r.Venue); ok {
		return v.Name
	}
	return r.Venue
}

// IsDate reports whether s is an 8 digit yyyymmdd string.
func IsDate(s string) bool {
	return len(s) == 8 && isDigits(s)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
