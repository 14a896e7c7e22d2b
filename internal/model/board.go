package model

import "strings"

// Board is the 8x8 grid. A non-empty square's piece always carries that
// square as its Location. Each side's king is cached.
type Board struct {
	squares [8][8]*Piece
	kings   [2]*Piece
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() *Board {
	board := &Board{}
	for col := 0; col < 8; col++ {
		board.put(NewPiece(Pawn, White, Location{Row: 1, Col: col}))
		board.put(NewPiece(Pawn, Black, Location{Row: 6, Col: col}))
		board.put(NewPiece(backRank[col], White, Location{Row: 0, Col: col}))
		board.put(NewPiece(backRank[col], Black, Location{Row: 7, Col: col}))
	}
	return board
}

// At returns the piece on loc, or nil when the square is empty or off the board.
func (b *Board) At(loc Location) *Piece {
	if loc.OutOfBounds() {
		return nil
	}
	return b.squares[loc.Row][loc.Col]
}

func (b *Board) set(loc Location, p *Piece) {
	b.squares[loc.Row][loc.Col] = p
}

// put places p on its own location and caches it when it is a king.
func (b *Board) put(p *Piece) {
	b.set(p.Location, p)
	if p.Kind == King {
		b.kings[p.Side] = p
	}
}

func (b *Board) King(side Polarity) *Piece {
	return b.kings[side]
}

// Pieces returns side's pieces in row-major order.
func (b *Board) Pieces(side Polarity) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.squares[row][col]; p != nil && p.Side == side {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

// String draws the board with rank 1 on the first line.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			switch {
			case p == nil:
				sb.WriteString(" ")
			case p.Side == White:
				sb.WriteString(p.Kind.Letter())
			default:
				sb.WriteString(strings.ToLower(p.Kind.Letter()))
			}
			sb.WriteString("|")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
