package model

import (
	"fmt"
	"slices"
)

// Kind identifies a piece variant. The first four values double as promotion ids.
type Kind int

const (
	Queen Kind = iota
	Rook
	Bishop
	Knight
	Pawn
	King
)

var kindNames = [...]string{
	Queen:  "queen",
	Rook:   "rook",
	Bishop: "bishop",
	Knight: "knight",
	Pawn:   "pawn",
	King:   "king",
}

// Worths used for material scores. A full side sums to 74.
var kindWorths = [...]int{
	Queen:  9,
	Rook:   5,
	Bishop: 3,
	Knight: 3,
	Pawn:   1,
	King:   35,
}

func (k Kind) valid() bool {
	return k >= Queen && k <= King
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Worth() int {
	if !k.valid() {
		return 0
	}
	return kindWorths[k]
}

// Letter is the notation letter; pawns use "P" on text boards.
func (k Kind) Letter() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return " "
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return Queen, fmt.Errorf("unknown piece kind %q", s)
}

// CastleSide records which castle, if any, a king just executed.
type CastleSide int

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// Piece is one of the six variants. Variant specific flags are only meaningful
// for the kinds that use them.
type Piece struct {
	Kind     Kind     `json:"type"`
	Side     Polarity `json:"color"`
	Location Location `json:"position"`
	Worth    int      `json:"worth"`

	// Pawn: ranks advanced, whether the last move was a two square advance,
	// and whether it stands on its final rank.
	MoveCount  int  `json:"moveCount,omitempty"`
	DoubleStep bool `json:"doubleStep,omitempty"`
	Promotable bool `json:"promotable,omitempty"`

	// Rook and king.
	HasMoved bool `json:"hasMoved"`

	// King.
	Castled CastleSide `json:"castled,omitempty"`
}

func NewPiece(kind Kind, side Polarity, loc Location) *Piece {
	return &Piece{Kind: kind, Side: side, Location: loc, Worth: kind.Worth()}
}

// Clone returns an independent copy with identical values.
func (p *Piece) Clone() *Piece {
	c := *p
	return &c
}

// Move relocates the piece and updates its variant flags.
func (p *Piece) Move(to Location) {
	p.behavior().displace(p, to)
}

// PreliminaryMoves are the destinations that ignore whether the mover's own
// king is left attacked.
func (p *Piece) PreliminaryMoves(s *GameState) []Location {
	moves := p.behavior().reach(s, p)
	if p.Kind == King {
		moves = append(moves, castleMoves(s, p)...)
	}
	return sortLocations(moves)
}

// PremoveTargets are the destinations offered before it is the owner's turn.
// They do not consult board occupancy.
func (p *Piece) PremoveTargets() []Location {
	return sortLocations(p.behavior().premoves(p))
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s at %s", p.Side, p.Kind, p.Location)
}

// movement is the capability each variant implements. reach never includes
// castling so threat queries cannot recurse through the opposing king.
type movement interface {
	reach(s *GameState, p *Piece) []Location
	premoves(p *Piece) []Location
	displace(p *Piece, to Location)
}

var (
	orthogonals = []int{East, North, West, South}
	diagonals   = []int{NorthEast, NorthWest, SouthWest, SouthEast}
	compass     = []int{East, NorthEast, North, NorthWest, West, SouthWest, South, SouthEast}
)

var movements = [...]movement{
	Queen:  slider{directions: compass},
	Rook:   slider{directions: orthogonals, tracksMoved: true},
	Bishop: slider{directions: diagonals},
	Knight: knight{},
	Pawn:   pawn{},
	King:   king{},
}

func (p *Piece) behavior() movement {
	return movements[p.Kind]
}

// relocate is the displacement shared by variants without flags.
func relocate(p *Piece, to Location) {
	p.Location = to
}

func sortLocations(locs []Location) []Location {
	slices.SortFunc(locs, func(a, b Location) int { return a.Compare(b) })
	return slices.Compact(locs)
}

func containsLocation(locs []Location, l Location) bool {
	return slices.Contains(locs, l)
}
