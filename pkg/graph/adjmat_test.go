package graph

import (
	"testing"

	"github.com/l3aro/modsplit/pkg/types"
)

func TestBuildCallTree(t *testing.T) {
	a := types.NewFunction("pkg.a", "tree", []types.QualifiedName{"pkg.b"}, nil)
	b := types.NewFunction("pkg.b", "tree", nil, nil)
	entities := map[types.QualifiedName]types.Entity{"pkg.a": a, "pkg.b": b}

	tree := BuildCallTree(entities)
	if len(tree["pkg.a"]) != 1 || tree["pkg.a"][0] != "pkg.b" {
		t.Fatalf("BuildCallTree[pkg.a] = %v, want [pkg.b]", tree["pkg.a"])
	}
	if len(tree["pkg.b"]) != 0 {
		t.Fatalf("BuildCallTree[pkg.b] = %v, want empty", tree["pkg.b"])
	}
}

func TestBuildAdjMatDeterministicOrdering(t *testing.T) {
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"pkg.z": {"pkg.a"},
		"pkg.a": {"pkg.m"},
		"pkg.m": nil,
	}

	adj := BuildAdjMat(callTree)
	want := []types.QualifiedName{"pkg.a", "pkg.m", "pkg.z"}
	if len(adj.NodeMap) != len(want) {
		t.Fatalf("NodeMap = %v, want %v", adj.NodeMap, want)
	}
	for i, n := range want {
		if adj.NodeMap[i] != n {
			t.Errorf("NodeMap[%d] = %q, want %q (ascending qualified-name order)", i, adj.NodeMap[i], n)
		}
	}

	zi, ai := adj.NodeIndex["pkg.z"], adj.NodeIndex["pkg.a"]
	if adj.Mat[zi][ai] != 1 {
		t.Errorf("Mat[z][a] = %d, want 1", adj.Mat[zi][ai])
	}
}

func TestAdjMatDegreesAndTotal(t *testing.T) {
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"pkg.a": {"pkg.b", "pkg.b"},
		"pkg.b": {"pkg.c"},
		"pkg.c": nil,
	}
	adj := BuildAdjMat(callTree)

	out := adj.OutDegree()
	in := adj.InDegree()
	ai, bi, ci := adj.NodeIndex["pkg.a"], adj.NodeIndex["pkg.b"], adj.NodeIndex["pkg.c"]

	if out[ai] != 2 {
		t.Errorf("OutDegree[a] = %d, want 2", out[ai])
	}
	if in[bi] != 2 {
		t.Errorf("InDegree[b] = %d, want 2", in[bi])
	}
	if in[ci] != 1 {
		t.Errorf("InDegree[c] = %d, want 1", in[ci])
	}
	if got := adj.TotalEdges(); got != 3 {
		t.Errorf("TotalEdges() = %d, want 3", got)
	}
}

func TestAdjMatLiveCommunitiesAndClone(t *testing.T) {
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"pkg.a": nil,
		"pkg.b": nil,
	}
	adj := BuildAdjMat(callTree)
	adj.Communities[0] = 5
	adj.Communities[1] = 5

	live := adj.LiveCommunities()
	if len(live) != 1 || live[0] != 5 {
		t.Fatalf("LiveCommunities() = %v, want [5]", live)
	}

	clone := adj.Clone()
	clone.Communities[0] = 99
	if adj.Communities[0] != 5 {
		t.Errorf("mutating clone leaked into original: %v", adj.Communities)
	}
	clone.Mat[0][0] = 42
	if adj.Mat[0][0] == 42 {
		t.Errorf("mutating clone's matrix leaked into original")
	}
}
