package search

import (
	"fmt"

	"github.com/benbeisheim/branchchess-backend/internal/model"
)

// Move is a candidate move as snapshots of the mover before and after it.
type Move struct {
	From model.Piece
	To   model.Piece
}

func (m *Move) String() string {
	return fmt.Sprintf("%s %s%s", m.From.Kind, m.From.Location, m.To.Location)
}

// Node is one position in a branch's search tree. The root has no move.
type Node struct {
	Worth    int
	Move     *Move
	children []*Node
	best     *Node
}

func NewRoot() *Node {
	return &Node{}
}

func (n *Node) Add(child *Node) {
	n.children = append(n.children, child)
}

func (n *Node) Children() []*Node {
	return n.children
}

// Best is the child chosen by Evaluate.
func (n *Node) Best() *Node {
	return n.best
}

// Evaluate scores the tree bottom up. A node with children adopts the child
// with the highest evaluated worth as best, then moves its own worth away
// from that maximum by the difference between them. The maximum is seeded
// with the first child's worth before that child is evaluated, and a later
// child replaces it only when strictly greater. maximize is passed down with
// alternating values but every ply maximizes.
func (n *Node) Evaluate(maximize bool) {
	if len(n.children) == 0 {
		return
	}
	best := n.children[0]
	max := best.Worth
	for _, child := range n.children {
		child.Evaluate(!maximize)
		if child.Worth > max {
			best = child
			max = child.Worth
		}
	}
	n.best = best
	n.Worth += n.Worth - max
}
