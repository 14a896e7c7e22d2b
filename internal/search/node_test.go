package search

import "testing"

func tree(worth int, children ...*Node) *Node {
	n := &Node{Worth: worth}
	for _, c := range children {
		n.Add(c)
	}
	return n
}

func TestEvaluate(t *testing.T) {
	t.Run("leaf keeps its worth", func(t *testing.T) {
		n := tree(12)
		n.Evaluate(true)
		if n.Worth != 12 || n.Best() != nil {
			t.Fatalf("expected worth 12 and no best, got %d %v", n.Worth, n.Best())
		}
	})

	t.Run("strict maximum wins", func(t *testing.T) {
		x, y, z := tree(3), tree(7), tree(7)
		root := tree(0, x, y, z)
		root.Evaluate(true)
		if root.Best() != y {
			t.Fatalf("expected the first of the equal maxima")
		}
		if root.Worth != -7 {
			t.Fatalf("expected 0 + 0 - 7, got %d", root.Worth)
		}
	})

	t.Run("first child seeds the maximum before it is evaluated", func(t *testing.T) {
		a := tree(10, tree(20))
		b := tree(5)
		root := tree(0, a, b)
		root.Evaluate(true)
		if a.Worth != 0 {
			t.Fatalf("expected a to become 10 + 10 - 20, got %d", a.Worth)
		}
		if root.Best() != a {
			t.Fatalf("expected a to stay best")
		}
		if root.Worth != -10 {
			t.Fatalf("expected the seeded maximum 10 to be used, got %d", root.Worth)
		}
	})

	t.Run("every ply maximizes", func(t *testing.T) {
		low, high := tree(1), tree(9)
		mid := tree(4, low, high)
		root := tree(0, mid)
		root.Evaluate(false)
		if mid.Best() != high || mid.Worth != -1 {
			t.Fatalf("expected the opponent ply to take the maximum too, got %v %d", mid.Best(), mid.Worth)
		}
		if root.Worth != -4 {
			t.Fatalf("expected 0 + 0 - 4, got %d", root.Worth)
		}
	})
}
