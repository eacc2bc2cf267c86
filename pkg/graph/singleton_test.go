package graph

import (
	"testing"

	"github.com/l3aro/modsplit/pkg/types"
)

func TestDirectoryOf(t *testing.T) {
	dir, ok := directoryOf(types.QualifiedName("pkg.sub.mod.Class.method"))
	if !ok || dir != "pkg.sub.mod" {
		t.Fatalf("directoryOf(pkg.sub.mod.Class.method) = (%q, %v), want (pkg.sub.mod, true)", dir, ok)
	}

	if _, ok := directoryOf(types.QualifiedName("mod.f")); ok {
		t.Errorf("a two-segment name has no directory, got ok=true")
	}
}

func TestRescueSingletonsMergesIntoDirectorySibling(t *testing.T) {
	// pkg.mod.a and pkg.mod.b share a directory ("pkg"); b has no call
	// edges to anything so it agglomerates to its own singleton community.
	// The rescue pass should still fold it back in since a lives in the
	// same directory.
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"pkg.mod.a": nil,
		"pkg.mod.b": nil,
	}
	adj := BuildAdjMat(callTree)
	ai, bi := adj.NodeIndex["pkg.mod.a"], adj.NodeIndex["pkg.mod.b"]
	// Force two distinct singleton communities sharing a directory.
	adj.Communities[ai] = 0
	adj.Communities[bi] = 1

	rescued := RescueSingletons(adj)
	if rescued.Communities[ai] != rescued.Communities[bi] {
		t.Errorf("a and b share a directory and should merge: got communities %v and %v",
			rescued.Communities[ai], rescued.Communities[bi])
	}
}

func TestRescueSingletonsNoSiblingLeavesUntouched(t *testing.T) {
	callTree := map[types.QualifiedName][]types.QualifiedName{
		"one.mod.a": nil,
		"two.mod.b": nil,
	}
	adj := BuildAdjMat(callTree)
	ai, bi := adj.NodeIndex["one.mod.a"], adj.NodeIndex["two.mod.b"]
	adj.Communities[ai] = 0
	adj.Communities[bi] = 1

	rescued := RescueSingletons(adj)
	if rescued.Communities[ai] == rescued.Communities[bi] {
		t.Errorf("a and b live in different directories and should not be merged")
	}
}

func TestRescueSingletonsEmpty(t *testing.T) {
	adj := BuildAdjMat(map[types.QualifiedName][]types.QualifiedName{})
	rescued := RescueSingletons(adj)
	if len(rescued.Mat) != 0 {
		t.Fatalf("rescuing singletons on an empty graph should stay empty")
	}
}
