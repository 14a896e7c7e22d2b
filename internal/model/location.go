package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Compass directions in degrees. Adjacent steps one square along any of them.
const (
	East      = 0
	NorthEast = 45
	North     = 90
	NorthWest = 135
	West      = 180
	SouthWest = 225
	South     = 270
	SouthEast = 315
)

// Location is an immutable board coordinate. Row 0 is white's back rank and
// column 0 is the a-file. Out-of-bounds values are representable and must be
// checked with OutOfBounds before a board lookup.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Nowhere is returned for steps along a direction that is not a multiple of 45.
var Nowhere = Location{Row: -1, Col: -1}

func NewLocation(row, col int) Location {
	return Location{Row: row, Col: col}
}

// ParseLocation reads rank-file text such as "e2".
func ParseLocation(s string) (Location, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return Nowhere, fmt.Errorf("invalid square %q", s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil {
		return Nowhere, fmt.Errorf("invalid square %q: %w", s, err)
	}
	loc := Location{Row: rank - 1, Col: int(s[0]) - 'a'}
	if loc.OutOfBounds() {
		return Nowhere, fmt.Errorf("square %q is off the board", s)
	}
	return loc, nil
}

func (l Location) OutOfBounds() bool {
	return l.Row < 0 || l.Row > 7 || l.Col < 0 || l.Col > 7
}

// Rank and File are the 1-based display forms of Row and Col.
func (l Location) Rank() int { return l.Row + 1 }
func (l Location) File() int { return l.Col + 1 }

// Adjacent returns the neighbouring location in the given compass direction.
// Negative and >= 360 directions wrap around.
func (l Location) Adjacent(direction int) Location {
	switch ((direction % 360) + 360) % 360 {
	case North:
		return Location{l.Row + 1, l.Col}
	case South:
		return Location{l.Row - 1, l.Col}
	case East:
		return Location{l.Row, l.Col + 1}
	case West:
		return Location{l.Row, l.Col - 1}
	case NorthEast:
		return Location{l.Row + 1, l.Col + 1}
	case NorthWest:
		return Location{l.Row + 1, l.Col - 1}
	case SouthEast:
		return Location{l.Row - 1, l.Col + 1}
	case SouthWest:
		return Location{l.Row - 1, l.Col - 1}
	}
	return Nowhere
}

func (l Location) Shift(dRow, dCol int) Location {
	return Location{l.Row + dRow, l.Col + dCol}
}

// Compare orders locations row-major: 8*Δrow + Δcol. It is an ordering key for
// sets of on-board squares, not a distance.
func (l Location) Compare(o Location) int {
	return 8*(l.Row-o.Row) + (l.Col - o.Col)
}

func (l Location) String() string {
	if l.OutOfBounds() {
		return fmt.Sprintf("(%d, %d)", l.Row, l.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+l.Col, l.Rank())
}
