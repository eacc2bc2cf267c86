package graph

import (
	"testing"

	"github.com/l3aro/modsplit/pkg/types"
)

func TestCollapseExclusivePairsSkipsCalleeWithTwoCallers(t *testing.T) {
	// a calls only b, but c calls b too, so (a,b) is not an exclusive pair.
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"pkg.a": {"pkg.b"},
		"pkg.b": nil,
		"pkg.c": {"pkg.b"}, // disqualifies b: it now has in-degree 2
	}
	adj := BuildAdjMat(callTree)
	ai, bi := adj.NodeIndex["pkg.a"], adj.NodeIndex["pkg.b"]

	collapsed := CollapseExclusivePairs(adj)
	if collapsed.Communities[ai] == collapsed.Communities[bi] {
		t.Fatalf("a and b should not collapse: b is called by more than one caller")
	}
}

func TestCollapseExclusivePairsIsolatedPair(t *testing.T) {
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"pkg.a": {"pkg.b"},
		"pkg.b": nil,
		"pkg.c": nil,
	}
	adj := BuildAdjMat(callTree)
	ai, bi, ci := adj.NodeIndex["pkg.a"], adj.NodeIndex["pkg.b"], adj.NodeIndex["pkg.c"]

	collapsed := CollapseExclusivePairs(adj)
	if collapsed.Communities[ai] != collapsed.Communities[bi] {
		t.Fatalf("a and b should collapse: a calls only b, b is called only by a")
	}
	if collapsed.Communities[ai] == collapsed.Communities[ci] {
		t.Fatalf("c is unrelated and should not be merged in")
	}
}

func TestCollapseExclusivePairsEmpty(t *testing.T) {
	adj := BuildAdjMat(map[types.QualifiedName][]types.QualifiedName{})
	collapsed := CollapseExclusivePairs(adj)
	if len(collapsed.Mat) != 0 {
		t.Fatalf("collapsing an empty graph should stay empty")
	}
}

func TestRelabel(t *testing.T) {
	communities := []int{1, 2, 1, 3}
	relabel(communities, 1, 2)
	want := []int{2, 2, 2, 3}
	for i := range want {
		if communities[i] != want[i] {
			t.Errorf("relabel result[%d] = %d, want %d", i, communities[i], want[i])
		}
	}

	// from == to is a no-op.
	before := append([]int(nil), communities...)
	relabel(communities, 2, 2)
	for i := range before {
		if communities[i] != before[i] {
			t.Errorf("relabel(from==to) mutated slice")
		}
	}
}
