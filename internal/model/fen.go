package model

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var (
	toChessType = [...]chess.PieceType{
		Queen:  chess.Queen,
		Rook:   chess.Rook,
		Bishop: chess.Bishop,
		Knight: chess.Knight,
		Pawn:   chess.Pawn,
		King:   chess.King,
	}
	toChessColor = [...]chess.Color{White: chess.White, Black: chess.Black}
)

func fromChessType(t chess.PieceType) (Kind, bool) {
	for k, ct := range toChessType {
		if ct == t {
			return Kind(k), true
		}
	}
	return Queen, false
}

func fromChessColor(c chess.Color) Polarity {
	if c == chess.Black {
		return Black
	}
	return White
}

func toSquare(loc Location) chess.Square {
	return chess.Square(loc.Row*8 + loc.Col)
}

func fromSquare(sq chess.Square) Location {
	return Location{Row: int(sq) / 8, Col: int(sq) % 8}
}

// homeRow is the rank a side's pawns start on.
func homeRow(side Polarity) int {
	if side == White {
		return 1
	}
	return 6
}

func backRow(side Polarity) int {
	if side == White {
		return 0
	}
	return 7
}

// NewGameStateFromFEN builds a state from Forsyth-Edwards Notation. Kings and
// rooks count as unmoved only when the castling field allows it, pawns count
// the ranks they have advanced, and the en-passant field marks the pawn that
// just advanced two squares. Each side's material is the worth of its pieces.
func NewGameStateFromFEN(fen string) (*GameState, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	pos := chess.NewGame(opt).Position()
	rights := pos.CastleRights()

	var pieces []*Piece
	for sq, cp := range pos.Board().SquareMap() {
		kind, ok := fromChessType(cp.Type())
		if !ok {
			continue
		}
		side := fromChessColor(cp.Color())
		p := NewPiece(kind, side, fromSquare(sq))
		color := toChessColor[side]
		switch kind {
		case Pawn:
			p.MoveCount = p.Location.Row - homeRow(side)
			if p.MoveCount < 0 {
				p.MoveCount = -p.MoveCount
			}
		case Rook:
			p.HasMoved = true
			if p.Location.Row == backRow(side) {
				if p.Location.Col == 0 && rights.CanCastle(color, chess.QueenSide) ||
					p.Location.Col == 7 && rights.CanCastle(color, chess.KingSide) {
					p.HasMoved = false
				}
			}
		case King:
			home := Location{Row: backRow(side), Col: 4}
			p.HasMoved = p.Location != home ||
				!rights.CanCastle(color, chess.KingSide) && !rights.CanCastle(color, chess.QueenSide)
		}
		pieces = append(pieces, p)
	}

	board, err := placePieces(pieces)
	if err != nil {
		return nil, fmt.Errorf("fen %q: %w", fen, err)
	}
	s := &GameState{board: board, side: fromChessColor(pos.Turn())}
	for _, p := range pieces {
		s.points[p.Side] += p.Worth
	}

	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		passed := s.side.Opposite()
		if p := board.At(fromSquare(ep).Adjacent(forward(passed))); p != nil && p.Kind == Pawn && p.Side == passed {
			p.DoubleStep = true
			s.enPassant = p
		}
	}
	return s, nil
}

// FEN describes the position in Forsyth-Edwards Notation. The halfmove clock
// is not tracked and is always 0.
func (s *GameState) FEN() string {
	squares := make(map[chess.Square]chess.Piece, 32)
	for _, side := range []Polarity{White, Black} {
		for _, p := range s.board.Pieces(side) {
			squares[toSquare(p.Location)] = chess.NewPiece(toChessType[p.Kind], toChessColor[side])
		}
	}

	turn := "w"
	if s.side == Black {
		turn = "b"
	}
	ep := "-"
	if s.enPassant != nil {
		ep = s.enPassant.Location.Adjacent(forward(s.enPassant.Side) + 180).String()
	}
	return fmt.Sprintf("%s %s %s %s 0 %d",
		chess.NewBoard(squares).String(), turn, s.castlingField(), ep, 1+s.history.Len()/2)
}

func (s *GameState) castlingField() string {
	var sb strings.Builder
	for _, side := range []Polarity{White, Black} {
		k := s.board.King(side)
		if k == nil || k.HasMoved || k.Location != (Location{Row: backRow(side), Col: 4}) {
			continue
		}
		for _, c := range []struct {
			col    int
			letter string
		}{{7, "K"}, {0, "Q"}} {
			rook := s.board.At(Location{Row: backRow(side), Col: c.col})
			if rook == nil || rook.Kind != Rook || rook.Side != side || rook.HasMoved {
				continue
			}
			if side == White {
				sb.WriteString(c.letter)
			} else {
				sb.WriteString(strings.ToLower(c.letter))
			}
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
