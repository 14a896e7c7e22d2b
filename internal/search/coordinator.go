package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbeisheim/branchchess-backend/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoCandidate is returned when no branch produced a move.
	ErrNoCandidate = errors.New("search produced no candidate move")
	// ErrStaleSearch is returned when the live state moved on during a search.
	ErrStaleSearch = errors.New("position changed during search")
)

// Config tunes the automated player.
type Config struct {
	// Depth is the number of extra plies searched below each candidate.
	Depth int
	// EndgameDepth replaces Depth once the searching side has at most
	// EndgamePieces pieces.
	EndgameDepth  int
	EndgamePieces int
	// Workers caps the number of branches. Zero runs one branch per piece.
	Workers int
	Logger  zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Depth:         3,
		EndgameDepth:  4,
		EndgamePieces: 9,
		Logger:        zerolog.Nop(),
	}
}

// Table is what the automated player plays on: the live state, the lock
// that guards it and a way to ask for a redraw.
type Table interface {
	Locker() sync.Locker
	State() *model.GameState
	Refresh()
}

// Coordinator is the automated player. Each time it is asked to move it
// splits its pieces across branches searching private copies of the
// position, joins them, and commits the best move to the live state.
type Coordinator struct {
	side     model.Polarity
	table    Table
	cfg      Config
	thinking atomic.Bool
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

func NewCoordinator(side model.Polarity, table Table, cfg Config) *Coordinator {
	return &Coordinator{
		side:   side,
		table:  table,
		cfg:    cfg,
		logger: cfg.Logger.With().Str("side", side.String()).Logger(),
	}
}

// Factory returns a PlayerFactory that seats coordinators built from cfg.
func Factory(cfg Config) model.PlayerFactory {
	return func(side model.Polarity, g *model.Game) model.Player {
		return NewCoordinator(side, g, cfg)
	}
}

func (c *Coordinator) Side() model.Polarity { return c.side }

// CanMove is false: the board view does not take input for the computer.
func (c *Coordinator) CanMove() bool { return false }

func (c *Coordinator) Thinking() bool { return c.thinking.Load() }

// Move starts a search in the background. It is called with the table's
// lock held and returns immediately.
func (c *Coordinator) Move() {
	c.thinking.Store(true)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		start := time.Now()
		move, err := c.Play(context.Background())
		c.thinking.Store(false)
		switch {
		case errors.Is(err, ErrStaleSearch):
			c.logger.Debug().Err(err).Msg("search discarded")
		case err != nil:
			c.logger.Warn().Err(err).Msg("search failed")
		default:
			c.logger.Info().Stringer("move", move).Dur("took", time.Since(start)).Msg("committed move")
		}
		c.table.Refresh()
	}()
}

// Promote always asks for a queen.
func (c *Coordinator) Promote() {
	c.table.State().Promote(model.Queen)
}

// Wait blocks until every background search has finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// seated reports whether the coordinator is still the live state's player for
// its side and that side is to move. Callers hold the table's lock.
func (c *Coordinator) seated(live *model.GameState) bool {
	pl := live.Player(c.side)
	return pl != nil && pl == model.Player(c) && live.Side() == c.side
}

// Play searches a snapshot of the live state and applies the chosen move to
// it. The live state is locked only while it is copied and while the move is
// committed.
func (c *Coordinator) Play(ctx context.Context) (*Move, error) {
	lock := c.table.Locker()
	lock.Lock()
	live := c.table.State()
	if !c.seated(live) {
		lock.Unlock()
		return nil, ErrStaleSearch
	}
	snapshot := live.Copy()
	generation := live.MoveCount()
	lock.Unlock()

	best, err := c.Search(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	lock.Lock()
	defer lock.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.seated(live) || live.MoveCount() != generation {
		return nil, ErrStaleSearch
	}
	if live.ApplyMove(best.From.Location, best.To.Location) == model.Illegal {
		return nil, fmt.Errorf("commit %s: %w", best, ErrStaleSearch)
	}
	return best, nil
}

// Search runs the branches over snapshot, which it does not modify, and
// returns the best move found.
func (c *Coordinator) Search(ctx context.Context, snapshot *model.GameState) (*Move, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pieces := snapshot.Pieces(c.side)
	origins := make([]model.Location, len(pieces))
	for i, p := range pieces {
		origins[i] = p.Location
	}
	chunks := partition(origins, c.cfg.Workers)

	branches := make([]*branch, len(chunks))
	for i, chunk := range chunks {
		branches[i] = newBranch(i, snapshot.Copy(), c.side, chunk, c.cfg, c.logger)
	}

	results := NewResultQueue()
	g := errgroup.Group{}
	for _, b := range branches {
		b := b
		g.Go(func() error {
			if best := b.run(); best != nil {
				results.Push(b.index, best)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("branches", len(branches)).Int("results", results.Size()).Msg("branches joined")
	best, err := selectBest(results.Drain())
	if err != nil {
		return nil, err
	}
	return best.Move, nil
}

// partition splits origins into consecutive chunks. workers <= 0, or more
// workers than origins, gives one origin per chunk; otherwise there are
// ceil(len/workers)-sized chunks.
func partition(origins []model.Location, workers int) [][]model.Location {
	if len(origins) == 0 {
		return nil
	}
	if workers <= 0 || workers > len(origins) {
		workers = len(origins)
	}
	size := (len(origins) + workers - 1) / workers
	chunks := make([][]model.Location, 0, workers)
	for start := 0; start < len(origins); start += size {
		end := min(start+size, len(origins))
		chunks = append(chunks, origins[start:end])
	}
	return chunks
}
