package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbeisheim/branchchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

// Opponent is who plays against the game's owner.
type Opponent string

const (
	OpponentPerson   Opponent = "person"
	OpponentComputer Opponent = "computer"
)

func ParseOpponent(s string) (Opponent, error) {
	switch Opponent(s) {
	case OpponentPerson, OpponentComputer:
		return Opponent(s), nil
	case "":
		return OpponentComputer, nil
	}
	return "", fmt.Errorf("unknown opponent %q", s)
}

// PlayerFactory builds the automated player for side. It receives the game so
// the player can share its lock and request redraws.
type PlayerFactory func(side Polarity, g *Game) Player

// GameConfig describes a new game.
type GameConfig struct {
	Owner     string
	Opponent  Opponent
	HumanSide Polarity
	ClockTime time.Duration
	// FEN is the starting position; empty means the standard one.
	FEN      string
	Computer PlayerFactory
	Logger   zerolog.Logger
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	// write serializes frames; a websocket connection allows one writer.
	write sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Result is set once the game is over. Winner is nil for a draw.
type Result struct {
	Winner *Polarity `json:"winner"`
	Reason string    `json:"reason"`
}

// Game is a session: one live GameState, its players, clocks, scoresheet and
// the board view's selection cursors. mu guards all of it; the automated
// player takes the same lock through Locker.
type Game struct {
	ID        string
	Owner     string
	Opponent  Opponent
	HumanSide Polarity

	mu          sync.Mutex
	state       *GameState
	players     [2]Player
	clocks      *ClockPair
	sheet       *Scoresheet
	connections *GameConnections

	selected *Location
	premove  *Location
	result   *Result
	sound    string
	// pendingRecord holds a move waiting for its promotion piece before it
	// can be written to the scoresheet.
	pendingRecord *MoveRecord

	view   atomic.Pointer[GameView]
	logger zerolog.Logger
}

func NewGame(id string, cfg GameConfig) (*Game, error) {
	state := NewGameState()
	if cfg.FEN != "" {
		var err error
		if state, err = NewGameStateFromFEN(cfg.FEN); err != nil {
			return nil, err
		}
	}
	sheet, err := NewScoresheet(state.FEN())
	if err != nil {
		return nil, err
	}
	if cfg.Opponent == OpponentComputer && cfg.Computer == nil {
		return nil, fmt.Errorf("game %s: computer opponent without a player factory", id)
	}

	logger := cfg.Logger.With().Str("game", id).Logger()
	g := &Game{
		ID:          id,
		Owner:       cfg.Owner,
		Opponent:    cfg.Opponent,
		HumanSide:   cfg.HumanSide,
		state:       state,
		sheet:       sheet,
		connections: NewGameConnections(),
		logger:      logger,
	}
	g.clocks = NewClockPair(cfg.ClockTime, state, logger)
	for _, side := range []Polarity{White, Black} {
		if cfg.Opponent == OpponentComputer && side != cfg.HumanSide {
			g.players[side] = cfg.Computer(side, g)
		} else {
			g.players[side] = NewPerson(side, state)
		}
	}
	state.SetPlayers(g.players[White], g.players[Black])
	state.AddMoveListener(g.clocks)
	state.AddMoveListener(g)
	g.publish()
	return g, nil
}

// Start runs the clock of the side to move and prompts it when it is the computer.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clocks.Start()
	if !g.state.CanMove() {
		g.state.prompt()
	}
	g.publish()
}

// Locker is the lock guarding the live state.
func (g *Game) Locker() sync.Locker {
	return &g.mu
}

// State returns the live state. Callers must hold Locker.
func (g *Game) State() *GameState {
	return g.state
}

// Refresh republishes the view and sends it to every connection.
func (g *Game) Refresh() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.publish()
}

// View returns the last published snapshot.
func (g *Game) View() *GameView {
	return g.view.Load()
}

func (g *Game) authorize(playerID string) error {
	if playerID != g.Owner {
		return ErrNotAuthorized
	}
	return nil
}

// ready checks that the game accepts input: no flag has fallen and the game
// is not over.
func (g *Game) ready() error {
	g.checkFlag()
	if g.result != nil {
		return ErrGameOver
	}
	return nil
}

// Select handles a click on the board. When the clicked square is a legal
// destination of the selected piece the move is made, otherwise the click
// updates the selection. While the computer is to move the click updates the
// premove cursor instead.
func (g *Game) Select(playerID string, loc Location) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.authorize(playerID); err != nil {
		return err
	}
	if loc.OutOfBounds() {
		return fmt.Errorf("%w: %s", ErrInvalidSquare, loc)
	}
	if err := g.ready(); err != nil {
		return err
	}
	if _, ok := g.state.Promoting(); ok {
		return ErrPromotionPending
	}
	defer g.publish()

	if !g.state.CanMove() {
		g.selectPremove(loc)
		return nil
	}

	if g.selected != nil && *g.selected != loc {
		from := *g.selected
		if p := g.state.PieceAt(from); p != nil && containsLocation(g.state.LegalMoves(p), loc) {
			g.selected = nil
			g.state.ApplyMove(from, loc)
			return nil
		}
	}
	if p := g.state.PieceAt(loc); p != nil && p.Side == g.state.Side() && (g.selected == nil || *g.selected != loc) {
		g.selected = &loc
	} else {
		g.selected = nil
	}
	return nil
}

func (g *Game) selectPremove(loc Location) {
	p := g.state.PieceAt(loc)
	if p == nil || p.Side == g.state.Side() || (g.premove != nil && *g.premove == loc) {
		g.premove = nil
		return
	}
	g.premove = &loc
}

// Promote resolves the pending promotion.
func (g *Game) Promote(playerID string, kind Kind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.authorize(playerID); err != nil {
		return err
	}
	if err := g.ready(); err != nil {
		return err
	}
	if _, ok := g.state.Promoting(); !ok {
		return ErrNoPromotion
	}
	g.state.Promote(kind)
	if g.pendingRecord != nil {
		rec := *g.pendingRecord
		g.pendingRecord = nil
		g.record(rec)
	}
	g.sound = "promote"
	g.settle()
	g.publish()
	return nil
}

// Takeback undoes the last move. Against the computer it keeps undoing until
// the person is to move again.
func (g *Game) Takeback(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.authorize(playerID); err != nil {
		return err
	}
	if err := g.ready(); err != nil {
		return err
	}
	if !g.state.CanMove() {
		return ErrNotYourTurn
	}
	if g.state.MoveCount() == 0 {
		return nil
	}

	g.state.Takeback()
	for g.state.MoveCount() > 0 && !g.state.CanMove() {
		g.state.Takeback()
	}
	g.selected, g.premove = nil, nil
	g.sound = "move"
	// back at the start with the computer to move
	if !g.state.CanMove() {
		g.state.prompt()
	}
	g.publish()
	return nil
}

// Resign ends the game. In a game against the computer the person resigns,
// otherwise the side to move does.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.authorize(playerID); err != nil {
		return err
	}
	if err := g.ready(); err != nil {
		return err
	}
	loser := g.state.Side()
	if g.Opponent == OpponentComputer {
		loser = g.HumanSide
	}
	g.finish(loser.Opposite(), true, "resignation")
	g.publish()
	return nil
}

// CheckFlag ends the game when a clock has run out. It reports whether it did.
func (g *Game) CheckFlag() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil {
		return false
	}
	g.checkFlag()
	if g.result == nil {
		return false
	}
	g.publish()
	return true
}

func (g *Game) checkFlag() {
	if g.result != nil {
		return
	}
	if side, ok := g.clocks.Flagged(); ok {
		g.finish(side.Opposite(), true, "timeout")
	}
}

// Over reports whether the game has a result.
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result != nil
}

// finish records the result, unseats the players so no further moves are
// requested and pauses the game.
func (g *Game) finish(winner Polarity, decisive bool, reason string) {
	g.result = &Result{Reason: reason}
	if decisive {
		g.result.Winner = &winner
	}
	g.selected, g.premove = nil, nil
	g.state.SetPlayers(nil, nil)
	g.state.Pause()
	g.logger.Info().Str("reason", reason).Interface("winner", g.result.Winner).Msg("game over")
}

// settle looks for checkmate or stalemate of the side to move.
func (g *Game) settle() {
	if g.result != nil {
		return
	}
	side := g.state.Side()
	switch {
	case g.state.IsCheckmated(side):
		g.sound = "checkmate"
		g.finish(side.Opposite(), true, "checkmate")
	case g.state.IsStalemated(side):
		g.finish(side, false, "stalemate")
	}
}

// Moved runs under the game lock, held by whoever applied the move.
func (g *Game) Moved(ev MoveEvent) {
	rec := ev.Record
	if ev.Undo {
		if g.pendingRecord != nil {
			g.pendingRecord = nil
		} else {
			g.sheet.Undo()
		}
		return
	}

	switch {
	case rec.Capture():
		g.sound = "capture"
	case rec.Castle():
		g.sound = "castle"
	default:
		g.sound = "move"
	}
	if g.state.InCheck(g.state.Side()) {
		g.sound = "check"
	}
	g.selected = nil

	if loc, ok := g.state.Promoting(); ok && loc == rec.To {
		g.pendingRecord = &rec
		return
	}
	g.record(rec)
	g.settle()

	if g.premove != nil && g.state.CanMove() {
		if p := g.state.PieceAt(*g.premove); p != nil && p.Side == g.state.Side() {
			g.selected = g.premove
		}
		g.premove = nil
	}
}

func (g *Game) Paused() {}

func (g *Game) record(rec MoveRecord) {
	promo := Queen
	if p := g.state.PieceAt(rec.To); p != nil {
		promo = p.Kind
	}
	san, err := g.sheet.Record(rec.From(), rec.To, promo)
	if err != nil {
		g.logger.Warn().Err(err).Msg("scoresheet out of step")
		return
	}
	g.logger.Debug().Str("move", san).Msg("moved")
}

func (g *Game) thinking() bool {
	for _, pl := range g.players {
		if t, ok := pl.(interface{ Thinking() bool }); ok && t.Thinking() {
			return true
		}
	}
	return false
}

// publish stores a fresh snapshot and broadcasts it. Callers hold mu.
func (g *Game) publish() {
	g.view.Store(g.snapshot())
	go g.broadcastState()
}

// RegisterConnection attaches conn as the player's socket. A player keeps the
// socket registered first; a second one gets ErrAlreadyConnected and a close
// frame, and the caller closes it.
func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		g.connections.write.Lock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.ClosePolicyViolation,
				"Connection already exists",
			),
		)
		g.connections.write.Unlock()
		return ErrAlreadyConnected
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.logger.Debug().Str("player", playerID).Msg("registered connection")

	// Send initial state
	go g.broadcastState()
	return nil
}

// UnregisterConnection detaches conn. A socket that was never registered, or
// was replaced, leaves the player's current one alone.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.logger.Debug().Str("player", playerID).Msg("unregistered connection")
	}
}

// Connected reports whether the player has a registered socket.
func (g *Game) Connected(playerID string) bool {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	_, ok := g.connections.connections[playerID]
	return ok
}

func (g *Game) broadcastState() {
	g.connections.write.Lock()
	defer g.connections.write.Unlock()

	payload, err := json.Marshal(g.view.Load())
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to marshal game view")
		return
	}

	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			g.logger.Warn().Err(err).Str("player", playerID).Msg("failed to send state")
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == conn {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}

// SendError reports a failed request to one connection.
func (g *Game) SendError(conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: msg})
	g.connections.write.Lock()
	defer g.connections.write.Unlock()
	if err := conn.WriteJSON(ws.Message{Type: ws.MessageTypeError, Payload: payload}); err != nil {
		g.logger.Warn().Err(err).Msg("failed to send error")
	}
}
