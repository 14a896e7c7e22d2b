package model

// GameView is an immutable snapshot of a session for the board view and the
// control panel. It is rebuilt after every change and never mutated after
// publication.
type GameView struct {
	ID        string   `json:"id"`
	Opponent  Opponent `json:"opponent"`
	HumanSide Polarity `json:"humanSide"`
	FEN       string   `json:"fen"`
	Pieces    []Piece  `json:"pieces"`
	ToMove    Polarity `json:"toMove"`
	Sound     string   `json:"sound"`

	IsCheck     bool    `json:"isCheck"`
	IsCheckmate bool    `json:"isCheckmate"`
	IsStalemate bool    `json:"isStalemate"`
	Result      *Result `json:"result"`
	Thinking    bool    `json:"thinking"`

	SelectedSquare  *Location   `json:"selectedSquare"`
	LegalMoves      []Location  `json:"legalMoves"`
	Premove         *Location   `json:"premove"`
	PremoveTargets  []Location  `json:"premoveTargets"`
	EnPassantTarget *Location   `json:"enPassantTarget"`
	PromotionSquare *Location   `json:"promotionSquare"`
	LastMove        *SimpleMove `json:"lastMove"`

	Points struct {
		White int `json:"white"`
		Black int `json:"black"`
	} `json:"points"`
	Clocks struct {
		White ClientClock `json:"white"`
		Black ClientClock `json:"black"`
	} `json:"clocks"`
	MoveHistory []string `json:"moveHistory"`
}

// snapshot builds a view of the session. Callers hold mu.
func (g *Game) snapshot() *GameView {
	s := g.state
	v := &GameView{
		ID:             g.ID,
		Opponent:       g.Opponent,
		HumanSide:      g.HumanSide,
		FEN:            s.FEN(),
		ToMove:         s.Side(),
		Sound:          g.sound,
		Result:         g.result,
		Thinking:       g.thinking(),
		LegalMoves:     []Location{},
		PremoveTargets: []Location{},
		MoveHistory:    g.sheet.Moves(),
	}
	for _, side := range []Polarity{White, Black} {
		for _, p := range s.Pieces(side) {
			v.Pieces = append(v.Pieces, *p)
		}
	}

	v.IsCheck = s.InCheck(v.ToMove)
	if v.IsCheck {
		v.IsCheckmate = s.IsCheckmated(v.ToMove)
	} else {
		v.IsStalemate = s.IsStalemated(v.ToMove)
	}

	if g.selected != nil {
		loc := *g.selected
		v.SelectedSquare = &loc
		if p := s.PieceAt(loc); p != nil {
			v.LegalMoves = s.LegalMoves(p)
		}
	}
	if g.premove != nil {
		loc := *g.premove
		v.Premove = &loc
		if p := s.PieceAt(loc); p != nil {
			v.PremoveTargets = p.PremoveTargets()
		}
	}
	if loc, ok := s.EnPassant(); ok {
		v.EnPassantTarget = &loc
	}
	if loc, ok := s.Promoting(); ok {
		v.PromotionSquare = &loc
	}
	if rec, ok := s.LastMove(); ok {
		v.LastMove = &SimpleMove{From: rec.From(), To: rec.To}
	}

	v.Points.White = s.Points(White)
	v.Points.Black = s.Points(Black)
	v.Clocks.White = g.clocks.Clock(White).Client()
	v.Clocks.Black = g.clocks.Clock(Black).Client()
	return v
}
