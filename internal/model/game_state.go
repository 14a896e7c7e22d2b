package model

import (
	"fmt"
)

// Illegal is returned by ApplyMove when the move cannot be made.
const Illegal = -1

// startingPoints is the material each side begins with.
const startingPoints = 74

// GameState is the authoritative board plus everything needed to apply and
// exactly undo moves. It is not safe for concurrent use; every reader and
// writer of a live state must hold the owning session's lock, and search
// workers use private copies.
type GameState struct {
	board     *Board
	side      Polarity
	enPassant *Piece
	promoting *Piece
	points    [2]int
	history   History
	players   [2]Player
	listeners []MoveListener
	applying  bool
}

// NewGameState returns the standard starting position with white to move.
func NewGameState() *GameState {
	return &GameState{
		board:  newBoard(),
		side:   White,
		points: [2]int{startingPoints, startingPoints},
	}
}

// NewGameStateFromPieces builds a state around an arbitrary set of pieces.
// Material starts at 74 per side and every piece adds its worth to its own
// side; kings are also credited to white's total, white's own king twice.
func NewGameStateFromPieces(pieces []*Piece, side Polarity) (*GameState, error) {
	board, err := placePieces(pieces)
	if err != nil {
		return nil, err
	}
	s := &GameState{
		board:  board,
		side:   side,
		points: [2]int{startingPoints, startingPoints},
	}
	for _, p := range pieces {
		if p.Kind == King {
			if p.Side == White {
				s.points[White] += p.Worth
			}
			s.points[White] += p.Worth
		}
		s.points[p.Side] += p.Worth
	}
	return s, nil
}

// placePieces puts pieces on an empty board. Every piece needs its own
// on-board square and each side exactly one king.
func placePieces(pieces []*Piece) (*Board, error) {
	board := &Board{}
	var kings [2]int
	for _, p := range pieces {
		if p.Location.OutOfBounds() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSquare, p)
		}
		if other := board.At(p.Location); other != nil {
			return nil, fmt.Errorf("%w: %s already holds %s", ErrInvalidSquare, p.Location, other)
		}
		board.put(p)
		if p.Kind == King {
			kings[p.Side]++
		}
	}
	if kings != [2]int{1, 1} {
		return nil, ErrMissingKing
	}
	return board, nil
}

// SetPlayers attaches the players prompted after moves and promotions.
func (s *GameState) SetPlayers(white, black Player) {
	s.players = [2]Player{white, black}
}

func (s *GameState) Player(side Polarity) Player {
	return s.players[side]
}

func (s *GameState) Side() Polarity {
	return s.side
}

// CanMove reports whether the side to move takes board input. A state
// without players always accepts input.
func (s *GameState) CanMove() bool {
	pl := s.players[s.side]
	return pl == nil || pl.CanMove()
}

func (s *GameState) PieceAt(loc Location) *Piece {
	return s.board.At(loc)
}

func (s *GameState) King(side Polarity) *Piece {
	return s.board.King(side)
}

// Pieces returns side's pieces in row-major order.
func (s *GameState) Pieces(side Polarity) []*Piece {
	return s.board.Pieces(side)
}

func (s *GameState) Points(side Polarity) int {
	return s.points[side]
}

// EnPassant returns the square of the pawn that may be captured en passant.
func (s *GameState) EnPassant() (Location, bool) {
	if s.enPassant == nil {
		return Nowhere, false
	}
	return s.enPassant.Location, true
}

// Promoting returns the square of a pawn waiting for Promote.
func (s *GameState) Promoting() (Location, bool) {
	if s.promoting == nil {
		return Nowhere, false
	}
	return s.promoting.Location, true
}

// LastMove returns the most recent history record.
func (s *GameState) LastMove() (MoveRecord, bool) {
	return s.history.Peek()
}

func (s *GameState) MoveCount() int {
	return s.history.Len()
}

func (s *GameState) String() string {
	return s.board.String()
}

// ApplyMove moves the piece on from to to and returns the captured piece's
// worth, 0 when nothing was captured, or Illegal. Legality against the
// rules is the caller's concern; see LegalMoves.
func (s *GameState) ApplyMove(from, to Location) int {
	return s.apply(from, to, true)
}

// Takeback undoes the most recent move. It does nothing when there is no history.
func (s *GameState) Takeback() {
	s.undo(true)
}

// Probe applies a move without notifying players or listeners, calls fn with
// the captured worth and undoes the move before returning, including when fn
// returns early. It reports false without calling fn for an illegal move.
func (s *GameState) Probe(from, to Location, fn func(captured int)) bool {
	captured := s.apply(from, to, false)
	if captured == Illegal {
		return false
	}
	defer s.undo(false)
	fn(captured)
	return true
}

func (s *GameState) apply(from, to Location, notify bool) int {
	if from.OutOfBounds() || to.OutOfBounds() || from == to {
		return Illegal
	}
	p := s.board.At(from)
	if p == nil {
		return Illegal
	}

	rec := MoveRecord{
		Before:        *p,
		To:            to,
		mover:         p,
		prevEnPassant: s.enPassant,
		prevPromoting: s.promoting,
		prevSide:      s.side,
	}
	captured := s.board.At(to)
	s.board.set(from, nil)
	s.board.set(to, p)
	p.Move(to)

	switch p.Kind {
	case Pawn:
		if captured == nil {
			captured = s.takeEnPassant(p)
		}
		if p.DoubleStep {
			s.enPassant = p
		} else {
			s.enPassant = nil
		}
		if p.Promotable {
			s.promoting = p
		}
	case King:
		s.castle(p, &rec)
		s.enPassant = nil
	default:
		s.enPassant = nil
	}

	worth := 0
	if captured != nil {
		rec.captured = captured
		rec.capturedAt = captured.Location
		rec.After = *captured
		s.points[captured.Side] -= captured.Worth
		worth = captured.Worth
	} else {
		rec.After = *p
	}
	s.history.Push(rec)
	s.side = s.side.Opposite()

	if notify {
		s.afterMove(rec)
	}
	return worth
}

// takeEnPassant removes the pawn p passed by capturing en passant, if any.
func (s *GameState) takeEnPassant(p *Piece) *Piece {
	behind := p.Location.Adjacent(forward(p.Side) + 180)
	victim := s.board.At(behind)
	if victim == nil || victim != s.enPassant || victim.Side == p.Side {
		return nil
	}
	s.board.set(behind, nil)
	return victim
}

// castle moves the rook beside a king that just castled.
func (s *GameState) castle(k *Piece, rec *MoveRecord) {
	var rookFrom, rookTo Location
	switch k.Castled {
	case QueenSide:
		rookFrom, rookTo = k.Location.Shift(0, -2), k.Location.Shift(0, 1)
	case KingSide:
		rookFrom, rookTo = k.Location.Shift(0, 1), k.Location.Shift(0, -1)
	default:
		return
	}
	rook := s.board.At(rookFrom)
	if rook == nil {
		return
	}
	rec.rook = rook
	rec.rookBefore = *rook
	s.board.set(rookFrom, nil)
	rook.Move(rookTo)
	s.board.set(rookTo, rook)
}

// afterMove resolves promotion, notifies listeners and prompts the next
// player. The next player is not prompted while a promotion is pending.
func (s *GameState) afterMove(rec MoveRecord) {
	if s.promoting != nil {
		if pl := s.players[s.promoting.Side]; pl != nil {
			s.applying = true
			pl.Promote()
			s.applying = false
		}
	}
	s.dispatchMove(MoveEvent{Record: rec})
	if s.promoting == nil {
		s.prompt()
	}
}

// prompt asks the side to move for a move unless it is already checkmated.
func (s *GameState) prompt() {
	pl := s.players[s.side]
	if pl == nil || s.IsCheckmated(s.side) {
		return
	}
	pl.Move()
}

func (s *GameState) undo(notify bool) {
	rec, ok := s.history.Pop()
	if !ok {
		return
	}
	// the destination may hold a promoted piece; it is discarded
	s.board.set(rec.To, nil)
	if rec.rook != nil {
		s.board.set(rec.rook.Location, nil)
		*rec.rook = rec.rookBefore
		s.board.set(rec.rook.Location, rec.rook)
	}
	*rec.mover = rec.Before
	s.board.set(rec.mover.Location, rec.mover)
	if rec.captured != nil {
		s.board.set(rec.capturedAt, rec.captured)
		s.points[rec.captured.Side] += rec.captured.Worth
	}
	s.enPassant = rec.prevEnPassant
	s.promoting = rec.prevPromoting
	s.side = rec.prevSide

	if notify {
		s.dispatchMove(MoveEvent{Record: rec, Undo: true})
	}
}

// Promote replaces the pending promotion pawn with a piece of kind. Kinds
// other than queen, rook, bishop or knight promote to a queen. Outside of a
// move it also prompts the side to move.
func (s *GameState) Promote(kind Kind) {
	if s.promoting == nil {
		return
	}
	if kind != Rook && kind != Bishop && kind != Knight {
		kind = Queen
	}
	pawn := s.promoting
	s.board.set(pawn.Location, NewPiece(kind, pawn.Side, pawn.Location))
	s.promoting = nil
	if !s.applying {
		s.prompt()
	}
}

// Threatened reports whether the opponents of side attack loc.
func (s *GameState) Threatened(loc Location, side Polarity) bool {
	for _, p := range s.board.Pieces(side.Opposite()) {
		var targets []Location
		if p.Kind == Pawn {
			targets = pawn{}.attacks(p)
		} else {
			targets = p.behavior().reach(s, p)
		}
		if containsLocation(targets, loc) {
			return true
		}
	}
	return false
}

func (s *GameState) InCheck(side Polarity) bool {
	k := s.board.King(side)
	if k == nil {
		return false
	}
	return s.Threatened(k.Location, side)
}

// LegalMoves filters p's preliminary moves by playing each one and keeping
// those that leave p's king safe. The board is restored before returning.
func (s *GameState) LegalMoves(p *Piece) []Location {
	origin := p.Location
	legal := []Location{}
	for _, to := range p.PreliminaryMoves(s) {
		s.Probe(origin, to, func(int) {
			if !s.InCheck(p.Side) {
				legal = append(legal, to)
			}
		})
	}
	return legal
}

func (s *GameState) hasLegalMove(side Polarity) bool {
	for _, p := range s.board.Pieces(side) {
		if len(s.LegalMoves(p)) > 0 {
			return true
		}
	}
	return false
}

func (s *GameState) IsCheckmated(side Polarity) bool {
	return s.InCheck(side) && !s.hasLegalMove(side)
}

func (s *GameState) IsStalemated(side Polarity) bool {
	return !s.InCheck(side) && !s.hasLegalMove(side)
}

// Copy returns a deep copy that shares nothing with s. The copy has no
// players or listeners.
func (s *GameState) Copy() *GameState {
	c := &GameState{
		board:  &Board{},
		side:   s.side,
		points: s.points,
	}
	clones := make(map[*Piece]*Piece, 40)
	clone := func(p *Piece) *Piece {
		if p == nil {
			return nil
		}
		if q, ok := clones[p]; ok {
			return q
		}
		q := p.Clone()
		clones[p] = q
		return q
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := s.board.squares[row][col]; p != nil {
				c.board.put(clone(p))
			}
		}
	}
	c.enPassant = clone(s.enPassant)
	c.promoting = clone(s.promoting)
	c.history.records = make([]MoveRecord, len(s.history.records))
	for i, rec := range s.history.records {
		rec.mover = clone(rec.mover)
		rec.captured = clone(rec.captured)
		rec.rook = clone(rec.rook)
		rec.prevEnPassant = clone(rec.prevEnPassant)
		rec.prevPromoting = clone(rec.prevPromoting)
		c.history.records[i] = rec
	}
	return c
}
