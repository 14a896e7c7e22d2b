package model

// MoveEvent describes a change to the board. Undo is set for takebacks.
type MoveEvent struct {
	Record MoveRecord
	Undo   bool
}

// MoveListener is notified after every successful apply or takeback and when
// play is forcibly paused.
type MoveListener interface {
	Moved(ev MoveEvent)
	Paused()
}

func (s *GameState) AddMoveListener(l MoveListener) {
	s.listeners = append(s.listeners, l)
}

func (s *GameState) dispatchMove(ev MoveEvent) {
	for _, l := range s.listeners {
		l.Moved(ev)
	}
}

// Pause tells listeners that play stopped (game over, resignation, flag fall).
func (s *GameState) Pause() {
	for _, l := range s.listeners {
		l.Paused()
	}
}
