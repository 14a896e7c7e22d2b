package model

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

// ClientClock is the clock as sent to the board view, in tenths of a second.
type ClientClock struct {
	TimeLeft int  `json:"timeLeft"`
	Running  bool `json:"running"`
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		c.lastStarted = c.now()
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		c.isRunning = false
	}
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

func (c *Clock) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// Expired reports whether the clock has run out.
func (c *Clock) Expired() bool {
	return c.GetTimeLeft() <= 0
}

func (c *Clock) Client() ClientClock {
	left := c.GetTimeLeft()
	if left < 0 {
		left = 0
	}
	return ClientClock{TimeLeft: int(left.Milliseconds() / 100), Running: c.IsRunning()}
}

// ClockPair runs one clock per side. As a move listener it stops the clock of
// the side that just moved and starts the clock of the side to move.
type ClockPair struct {
	clocks [2]*Clock
	state  *GameState
	logger zerolog.Logger
}

func NewClockPair(initialTime time.Duration, state *GameState, logger zerolog.Logger) *ClockPair {
	return &ClockPair{
		clocks: [2]*Clock{NewClock(initialTime), NewClock(initialTime)},
		state:  state,
		logger: logger,
	}
}

func (cp *ClockPair) Clock(side Polarity) *Clock {
	return cp.clocks[side]
}

// Start runs the clock of the side to move.
func (cp *ClockPair) Start() {
	cp.clocks[cp.state.Side()].Start()
}

func (cp *ClockPair) Moved(ev MoveEvent) {
	toMove := cp.state.Side()
	cp.clocks[toMove.Opposite()].Stop()
	cp.clocks[toMove].Start()
	cp.logger.Debug().
		Str("toMove", toMove.String()).
		Dur("white", cp.clocks[White].GetTimeLeft()).
		Dur("black", cp.clocks[Black].GetTimeLeft()).
		Bool("undo", ev.Undo).
		Msg("clocks switched")
}

func (cp *ClockPair) Paused() {
	cp.clocks[White].Stop()
	cp.clocks[Black].Stop()
	cp.logger.Debug().Msg("clocks stopped")
}

// Flagged returns the side whose clock has run out, if any.
func (cp *ClockPair) Flagged() (Polarity, bool) {
	for _, side := range []Polarity{White, Black} {
		if cp.clocks[side].Expired() {
			return side, true
		}
	}
	return White, false
}
