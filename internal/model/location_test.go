package model

import "testing"

func sq(t *testing.T, name string) Location {
	t.Helper()
	loc, err := ParseLocation(name)
	if err != nil {
		t.Fatalf("parse %q: %v", name, err)
	}
	return loc
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "a1", want: Location{Row: 0, Col: 0}},
		{in: "e2", want: Location{Row: 1, Col: 4}},
		{in: "H8", want: Location{Row: 7, Col: 7}},
		{in: " d5 ", want: Location{Row: 4, Col: 3}},
		{in: "e", wantErr: true},
		{in: "e0", wantErr: true},
		{in: "i1", wantErr: true},
		{in: "a9", wantErr: true},
		{in: "ax", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got.String() != tt.want.String() {
				t.Fatalf("expected name %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAdjacent(t *testing.T) {
	center := Location{Row: 3, Col: 3}
	tests := []struct {
		direction int
		want      Location
	}{
		{East, Location{3, 4}},
		{NorthEast, Location{4, 4}},
		{North, Location{4, 3}},
		{NorthWest, Location{4, 2}},
		{West, Location{3, 2}},
		{SouthWest, Location{2, 2}},
		{South, Location{2, 3}},
		{SouthEast, Location{2, 4}},
		{-90, Location{2, 3}},
		{450, Location{4, 3}},
		{360 + 135, Location{4, 2}},
		{30, Nowhere},
	}
	for _, tt := range tests {
		if got := center.Adjacent(tt.direction); got != tt.want {
			t.Errorf("Adjacent(%d): expected %v, got %v", tt.direction, tt.want, got)
		}
	}
}

func TestOutOfBoundsIsRepresentable(t *testing.T) {
	corner := Location{Row: 0, Col: 0}
	off := corner.Adjacent(SouthWest)
	if off != (Location{Row: -1, Col: -1}) {
		t.Fatalf("expected (-1,-1), got %v", off)
	}
	if !off.OutOfBounds() {
		t.Fatalf("expected %v to be out of bounds", off)
	}
	if corner.OutOfBounds() {
		t.Fatalf("expected a1 to be on the board")
	}
}

func TestCompareOrdersRowMajor(t *testing.T) {
	a1 := Location{Row: 0, Col: 0}
	h1 := Location{Row: 0, Col: 7}
	a2 := Location{Row: 1, Col: 0}
	if a1.Compare(h1) >= 0 || h1.Compare(a2) >= 0 || a2.Compare(a2) != 0 {
		t.Fatalf("expected a1 < h1 < a2")
	}
	if got := a2.Compare(h1); got != 1 {
		t.Fatalf("expected 8*1 + (0-7) = 1, got %d", got)
	}
}
