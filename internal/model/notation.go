package model

import (
	"fmt"

	"github.com/notnil/chess"
)

// Scoresheet keeps the game's moves in standard algebraic notation. It follows
// its own copy of the position so that disambiguation, check and mate
// suffixes come out right.
type Scoresheet struct {
	start string
	game  *chess.Game
	moves []*chess.Move
	sans  []string
}

func NewScoresheet(fen string) (*Scoresheet, error) {
	game, err := newNotationGame(fen)
	if err != nil {
		return nil, err
	}
	return &Scoresheet{start: fen, game: game}, nil
}

func newNotationGame(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("scoresheet: %w", err)
	}
	return chess.NewGame(opt, chess.UseNotation(chess.AlgebraicNotation{})), nil
}

// Record appends the move from -> to. promo is only used when the move
// promotes a pawn. Once a move cannot be matched the sheet stops following
// the position and records coordinates instead.
func (s *Scoresheet) Record(from, to Location, promo Kind) (string, error) {
	if len(s.moves) > 0 && s.moves[len(s.moves)-1] == nil {
		return s.fallback(from, to), nil
	}
	pos := s.game.Position()
	var match *chess.Move
	for _, m := range pos.ValidMoves() {
		if m.S1() != toSquare(from) || m.S2() != toSquare(to) {
			continue
		}
		if m.Promo() != chess.NoPieceType && m.Promo() != toChessType[promo] {
			continue
		}
		match = m
		break
	}
	if match == nil {
		s.fallback(from, to)
		return "", fmt.Errorf("scoresheet: %s%s is not playable in %s", from, to, pos)
	}
	san := chess.AlgebraicNotation{}.Encode(pos, match)
	if err := s.game.Move(match); err != nil {
		s.fallback(from, to)
		return "", fmt.Errorf("scoresheet: %w", err)
	}
	s.moves = append(s.moves, match)
	s.sans = append(s.sans, san)
	return san, nil
}

func (s *Scoresheet) fallback(from, to Location) string {
	text := from.String() + to.String()
	s.moves = append(s.moves, nil)
	s.sans = append(s.sans, text)
	return text
}

// Undo drops the last recorded move.
func (s *Scoresheet) Undo() {
	if len(s.sans) == 0 {
		return
	}
	s.moves = s.moves[:len(s.moves)-1]
	s.sans = s.sans[:len(s.sans)-1]

	game, err := newNotationGame(s.start)
	if err != nil {
		return
	}
	for _, m := range s.moves {
		if m == nil {
			break
		}
		if err := game.Move(m); err != nil {
			break
		}
	}
	s.game = game
}

// Moves returns a copy of the recorded moves.
func (s *Scoresheet) Moves() []string {
	return append([]string(nil), s.sans...)
}

func (s *Scoresheet) Len() int {
	return len(s.sans)
}
