package search

import (
	"github.com/benbeisheim/branchchess-backend/internal/model"
	"github.com/rs/zerolog"
)

// pruneFloor is below any reachable worth.
const pruneFloor = -1000

// branch is one search worker. It owns its state copy outright and searches
// the moves of the pieces standing on origins.
type branch struct {
	index    int
	state    *model.GameState
	side     model.Polarity
	origins  []model.Location
	maxDepth int
	nodes    int
	logger   zerolog.Logger
}

func newBranch(index int, state *model.GameState, side model.Polarity, origins []model.Location, cfg Config, logger zerolog.Logger) *branch {
	depth := cfg.Depth
	if len(state.Pieces(side)) <= cfg.EndgamePieces {
		depth = cfg.EndgameDepth
	}
	return &branch{
		index:    index,
		state:    state,
		side:     side,
		origins:  origins,
		maxDepth: depth,
		logger:   logger.With().Int("worker", index).Logger(),
	}
}

// run builds and evaluates the tree and returns the root's best child, or nil
// when none of the branch's pieces can move.
func (b *branch) run() *Node {
	root := b.grow()
	root.Evaluate(true)

	best := root.Best()
	ev := b.logger.Debug().Int("depth", b.maxDepth).Int("nodes", b.nodes)
	if best != nil {
		ev = ev.Int("worth", best.Worth).Stringer("move", best.Move)
	}
	ev.Msg("branch finished")
	return best
}

// grow builds the unevaluated tree for the pieces standing on origins.
func (b *branch) grow() *Node {
	pieces := make([]*model.Piece, 0, len(b.origins))
	for _, loc := range b.origins {
		if p := b.state.PieceAt(loc); p != nil && p.Side == b.side {
			pieces = append(pieces, p)
		}
	}

	root := NewRoot()
	b.expand(pieces, root, b.side, 0)
	return root
}

// expand adds a child under head for every legal move of pieces and recurses
// for the other side. Within one piece a move that does not beat the best
// worth seen so far for that piece abandons the whole level.
func (b *branch) expand(pieces []*model.Piece, head *Node, side model.Polarity, depth int) {
	if depth > b.maxDepth {
		return
	}
	for _, p := range pieces {
		maxWorth := pruneFloor
		origin := p.Location
		moves := b.state.LegalMoves(p)
		spaces := len(moves)
		for _, to := range moves {
			from := *p
			pruned := false
			b.state.Probe(origin, to, func(captured int) {
				if _, ok := b.state.Promoting(); ok {
					b.state.Promote(model.Queen)
				}
				worth := 2*captured + spaces/2 + b.state.Points(p.Side)
				if worth <= maxWorth {
					pruned = true
					return
				}
				maxWorth = worth
				n := &Node{Worth: worth, Move: &Move{From: from, To: *b.state.PieceAt(to)}}
				head.Add(n)
				b.nodes++
				opposite := side.Opposite()
				b.expand(b.state.Pieces(opposite), n, opposite, depth+1)
			})
			if pruned {
				return
			}
		}
	}
}
