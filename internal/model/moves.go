package model

// slider walks each ray until it leaves the board or meets a piece. A hostile
// blocker's square is included.
type slider struct {
	directions  []int
	tracksMoved bool
}

func (m slider) reach(s *GameState, p *Piece) []Location {
	moves := []Location{}
	for _, dir := range m.directions {
		next := p.Location.Adjacent(dir)
		for !next.OutOfBounds() {
			occupant := s.PieceAt(next)
			if occupant == nil {
				moves = append(moves, next)
			} else {
				if occupant.Side != p.Side {
					moves = append(moves, next)
				}
				break
			}
			next = next.Adjacent(dir)
		}
	}
	return moves
}

func (m slider) premoves(p *Piece) []Location {
	moves := []Location{}
	for _, dir := range m.directions {
		for next := p.Location.Adjacent(dir); !next.OutOfBounds(); next = next.Adjacent(dir) {
			moves = append(moves, next)
		}
	}
	return moves
}

func (m slider) displace(p *Piece, to Location) {
	relocate(p, to)
	if m.tracksMoved {
		p.HasMoved = true
	}
}

var knightOffsets = []Location{
	{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
	{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
}

type knight struct{}

func (knight) reach(s *GameState, p *Piece) []Location {
	moves := []Location{}
	for _, off := range knightOffsets {
		target := p.Location.Shift(off.Row, off.Col)
		if target.OutOfBounds() {
			continue
		}
		if occupant := s.PieceAt(target); occupant == nil || occupant.Side != p.Side {
			moves = append(moves, target)
		}
	}
	return moves
}

func (knight) premoves(p *Piece) []Location {
	moves := []Location{}
	for _, off := range knightOffsets {
		if target := p.Location.Shift(off.Row, off.Col); !target.OutOfBounds() {
			moves = append(moves, target)
		}
	}
	return moves
}

func (knight) displace(p *Piece, to Location) {
	relocate(p, to)
}

type pawn struct{}

// forward is the compass direction a pawn of side advances in.
func forward(side Polarity) int {
	if side == White {
		return North
	}
	return South
}

func lastRank(side Polarity) int {
	if side == White {
		return 7
	}
	return 0
}

func (pawn) reach(s *GameState, p *Piece) []Location {
	moves := []Location{}
	dir := forward(p.Side)

	next := p.Location.Adjacent(dir)
	if !next.OutOfBounds() && s.PieceAt(next) == nil {
		moves = append(moves, next)
		if p.MoveCount == 0 {
			two := next.Adjacent(dir)
			if !two.OutOfBounds() && s.PieceAt(two) == nil {
				moves = append(moves, two)
			}
		}
	}

	for _, i := range []int{-1, 1} {
		diagonal := p.Location.Adjacent(dir + 45*i)
		if diagonal.OutOfBounds() {
			continue
		}
		if victim := s.PieceAt(diagonal); victim != nil && victim.Side != p.Side {
			moves = append(moves, diagonal)
		}
		// en passant lands on the diagonal, not on the passed pawn's square
		beside := s.PieceAt(p.Location.Adjacent(dir + 90*i))
		if beside != nil && beside.Side != p.Side && beside.Kind == Pawn && beside == s.enPassant {
			moves = append(moves, diagonal)
		}
	}
	return moves
}

// attacks are the two diagonal squares a pawn threatens.
func (pawn) attacks(p *Piece) []Location {
	dir := forward(p.Side)
	moves := []Location{}
	for _, i := range []int{-1, 1} {
		if diagonal := p.Location.Adjacent(dir + 45*i); !diagonal.OutOfBounds() {
			moves = append(moves, diagonal)
		}
	}
	return moves
}

func (m pawn) premoves(p *Piece) []Location {
	dir := forward(p.Side)
	moves := m.attacks(p)
	next := p.Location.Adjacent(dir)
	if !next.OutOfBounds() {
		moves = append(moves, next)
		if two := next.Adjacent(dir); p.MoveCount == 0 && !two.OutOfBounds() {
			moves = append(moves, two)
		}
	}
	return moves
}

func (pawn) displace(p *Piece, to Location) {
	advanced := to.Row - p.Location.Row
	if advanced < 0 {
		advanced = -advanced
	}
	p.DoubleStep = advanced == 2
	p.MoveCount += advanced
	p.Promotable = to.Row == lastRank(p.Side)
	relocate(p, to)
}

type king struct{}

func (king) reach(s *GameState, p *Piece) []Location {
	moves := []Location{}
	for _, dir := range compass {
		next := p.Location.Adjacent(dir)
		if next.OutOfBounds() {
			continue
		}
		if occupant := s.PieceAt(next); occupant == nil || occupant.Side != p.Side {
			moves = append(moves, next)
		}
	}
	return moves
}

func (king) premoves(p *Piece) []Location {
	moves := []Location{}
	for _, dir := range compass {
		if next := p.Location.Adjacent(dir); !next.OutOfBounds() {
			moves = append(moves, next)
		}
	}
	if !p.HasMoved {
		for _, target := range []Location{p.Location.Shift(0, -2), p.Location.Shift(0, 2)} {
			if !target.OutOfBounds() {
				moves = append(moves, target)
			}
		}
	}
	return moves
}

func (king) displace(p *Piece, to Location) {
	switch p.Location.Col - to.Col {
	case 2:
		p.Castled = QueenSide
	case -2:
		p.Castled = KingSide
	default:
		p.Castled = NoCastle
	}
	relocate(p, to)
	p.HasMoved = true
}

// castleMoves returns the castling destinations the king may currently use.
func castleMoves(s *GameState, k *Piece) []Location {
	moves := []Location{}
	if canCastle(s, k, East, 2) {
		moves = append(moves, k.Location.Shift(0, 2))
	}
	if canCastle(s, k, West, 3) {
		moves = append(moves, k.Location.Shift(0, -2))
	}
	return moves
}

// canCastle checks the castle toward dir where gap squares separate the king
// from its rook. The king's square and the two squares it crosses must not be
// threatened.
func canCastle(s *GameState, k *Piece, dir, gap int) bool {
	if k.HasMoved {
		return false
	}
	squares := make([]Location, 0, gap)
	next := k.Location
	for i := 0; i < gap; i++ {
		next = next.Adjacent(dir)
		if next.OutOfBounds() || s.PieceAt(next) != nil {
			return false
		}
		squares = append(squares, next)
	}
	rook := s.PieceAt(next.Adjacent(dir))
	if rook == nil || rook.Kind != Rook || rook.Side != k.Side || rook.HasMoved {
		return false
	}
	for _, loc := range []Location{k.Location, squares[0], squares[1]} {
		if s.Threatened(loc, k.Side) {
			return false
		}
	}
	return true
}
