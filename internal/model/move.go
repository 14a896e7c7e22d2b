package model

// MoveRecord is pushed for every applied move and holds what is needed to
// invert it exactly. Before is the mover before the move. After is the
// captured piece, or the mover after the move when nothing was captured.
type MoveRecord struct {
	Before Piece
	After  Piece
	To     Location

	mover      *Piece
	captured   *Piece
	capturedAt Location
	rook       *Piece
	rookBefore Piece

	prevEnPassant *Piece
	prevPromoting *Piece
	prevSide      Polarity
}

func (r MoveRecord) From() Location { return r.Before.Location }

// Capture reports whether the move removed a piece, en passant included.
func (r MoveRecord) Capture() bool { return r.captured != nil }

// Castle reports whether the move was a castle.
func (r MoveRecord) Castle() bool { return r.rook != nil }

// History is the stack of applied moves.
type History struct {
	records []MoveRecord
}

func (h *History) Push(r MoveRecord) {
	h.records = append(h.records, r)
}

// Pop removes the most recent record. ok is false when the history is empty.
func (h *History) Pop() (MoveRecord, bool) {
	if len(h.records) == 0 {
		return MoveRecord{}, false
	}
	r := h.records[len(h.records)-1]
	h.records = h.records[:len(h.records)-1]
	return r, true
}

func (h *History) Peek() (MoveRecord, bool) {
	if len(h.records) == 0 {
		return MoveRecord{}, false
	}
	return h.records[len(h.records)-1], true
}

func (h *History) Len() int {
	return len(h.records)
}

// SimpleMove is a from/to pair used for highlighting.
type SimpleMove struct {
	From Location `json:"from"`
	To   Location `json:"to"`
}
