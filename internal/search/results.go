package search

import (
	"slices"
	"sync"
)

// Candidate is a branch's best node tagged with the branch that found it.
type Candidate struct {
	Worker int
	Node   *Node
}

// ResultQueue collects branch results. It is safe for concurrent use.
type ResultQueue struct {
	results []Candidate
	mu      sync.Mutex
}

func NewResultQueue() *ResultQueue {
	return &ResultQueue{
		results: []Candidate{},
	}
}

func (q *ResultQueue) Push(worker int, n *Node) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.results = append(q.results, Candidate{Worker: worker, Node: n})
}

// Drain removes and returns every result in worker order.
func (q *ResultQueue) Drain() []Candidate {
	q.mu.Lock()
	defer q.mu.Unlock()

	results := q.results
	q.results = []Candidate{}
	slices.SortFunc(results, func(a, b Candidate) int { return a.Worker - b.Worker })
	return results
}

func (q *ResultQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.results)
}

// selectBest returns the candidate with the highest worth. Ties go to the
// lowest worker index.
func selectBest(candidates []Candidate) (*Node, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidate
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Node.Worth > best.Node.Worth {
			best = c
		}
	}
	return best.Node, nil
}
