package rewrite

import (
	"testing"

	"github.com/l3aro/modsplit/pkg/graph"
	"github.com/l3aro/modsplit/pkg/types"
)

func TestGroupByCommunity(t *testing.T) {
	a := types.NewFunction("pkg.a", "tree", nil, nil)
	b := types.NewFunction("pkg.b", "tree", nil, nil)
	c := types.NewFunction("pkg.c", "tree", nil, nil)
	entities := map[types.QualifiedName]types.Entity{"pkg.a": a, "pkg.b": b, "pkg.c": c}

	adj := graph.BuildAdjMat(map[types.QualifiedName][]types.QualifiedName{
		"pkg.a": nil, "pkg.b": nil, "pkg.c": nil,
	})
	ai, bi, ci := adj.NodeIndex["pkg.a"], adj.NodeIndex["pkg.b"], adj.NodeIndex["pkg.c"]
	adj.Communities[ai] = 0
	adj.Communities[bi] = 0
	adj.Communities[ci] = 1

	groups := Group(adj, entities)
	if len(groups[0]) != 2 {
		t.Fatalf("community 0 = %v, want 2 entities", groups[0])
	}
	if len(groups[1]) != 1 {
		t.Fatalf("community 1 = %v, want 1 entity", groups[1])
	}
}

func TestCommunityIDsAscending(t *testing.T) {
	groups := map[int][]types.Entity{3: nil, 1: nil, 2: nil}
	ids := communityIDsAscending(groups)
	want := []int{1, 2, 3}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("communityIDsAscending()[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}
