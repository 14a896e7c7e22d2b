package model

import (
	"fmt"
)

// Polarity is the side a piece or player belongs to.
type Polarity int

const (
	White Polarity = iota
	Black
)

func (p Polarity) Opposite() Polarity {
	if p == White {
		return Black
	}
	return White
}

func (p Polarity) String() string {
	if p == White {
		return "white"
	}
	return "black"
}

func (p Polarity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Polarity) UnmarshalText(text []byte) error {
	side, err := ParsePolarity(string(text))
	if err != nil {
		return err
	}
	*p = side
	return nil
}

func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown side %q", s)
}

// Player is asked by the game state to move or to choose a promotion piece.
type Player interface {
	Side() Polarity
	// CanMove reports whether the player takes input from the board view.
	CanMove() bool
	// Move prompts the player that it is their turn.
	Move()
	// Promote prompts the player to resolve a pending promotion by calling
	// GameState.Promote.
	Promote()
}

// Person is a human at the board. Promotions are resolved by the chooser when
// one is set, otherwise they stay pending until the UI calls Promote.
type Person struct {
	side   Polarity
	state  *GameState
	choose func() Kind
}

func NewPerson(side Polarity, state *GameState) *Person {
	return &Person{side: side, state: state}
}

// WithChooser sets the function asked for a promotion piece.
func (p *Person) WithChooser(choose func() Kind) *Person {
	p.choose = choose
	return p
}

func (p *Person) Side() Polarity { return p.side }
func (p *Person) CanMove() bool  { return true }

// Move does nothing: a person moves through the board view.
func (p *Person) Move() {}

func (p *Person) Promote() {
	if p.choose != nil {
		p.state.Promote(p.choose())
	}
}
