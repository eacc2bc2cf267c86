// Package graph builds the directed weighted call graph over top-level
// entities and runs community detection on it: adjacency-matrix
// construction, exclusive-pair pre-collapse, the modularity optimiser,
// and the singleton-rescue pass.
package graph

import (
	"sort"

	"github.com/l3aro/modsplit/pkg/types"
)

// AdjMat is the dense directed weighted call graph: a matrix plus a
// node index and a community label per node.
type AdjMat struct {
	Mat         [][]int
	NodeMap     []types.QualifiedName          // index -> qualified name
	NodeIndex   map[types.QualifiedName]int     // qualified name -> index
	Communities []int
}

// BuildCallTree produces {caller: [callees]} over every entity's call
// edges.
func BuildCallTree(entities map[types.QualifiedName]types.Entity) map[types.QualifiedName][]types.QualifiedName {
	tree := make(map[types.QualifiedName][]types.QualifiedName, len(entities))
	for name, ent := range entities {
		tree[name] = ent.CallEdges()
	}
	return tree
}

// BuildAdjMat turns a call tree into a dense matrix. Nodes are exactly
// the keys of the call tree; Go maps have no stable iteration order, so
// node indices here are assigned by ascending qualified name rather than
// insertion order. This gives the same numbering for the same entity set
// regardless of how the caller built the map, which a language with
// ordered dicts gets for free but Go does not.
func BuildAdjMat(callTree map[types.QualifiedName][]types.QualifiedName) *AdjMat {
	names := make([]types.QualifiedName, 0, len(callTree))
	for name := range callTree {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	n := len(names)
	index := make(map[types.QualifiedName]int, n)
	for i, name := range names {
		index[name] = i
	}

	mat := make([][]int, n)
	for i := range mat {
		mat[i] = make([]int, n)
	}

	communities := make([]int, n)
	for i := range communities {
		communities[i] = i
	}

	for caller, callees := range callTree {
		ci, ok := index[caller]
		if !ok {
			continue
		}
		for _, callee := range callees {
			if cj, ok := index[callee]; ok {
				mat[ci][cj]++
			}
		}
	}

	return &AdjMat{Mat: mat, NodeMap: names, NodeIndex: index, Communities: communities}
}

// OutDegree returns Σ_j M[i][j] for every row i.
func (a *AdjMat) OutDegree() []int {
	out := make([]int, len(a.Mat))
	for i, row := range a.Mat {
		sum := 0
		for _, v := range row {
			sum += v
		}
		out[i] = sum
	}
	return out
}

// InDegree returns Σ_i M[i][j] for every column j.
func (a *AdjMat) InDegree() []int {
	n := len(a.Mat)
	in := make([]int, n)
	for _, row := range a.Mat {
		for j, v := range row {
			in[j] += v
		}
	}
	return in
}

// TotalEdges returns T = Σ_i out_i.
func (a *AdjMat) TotalEdges() int {
	total := 0
	for _, v := range a.OutDegree() {
		total += v
	}
	return total
}

// LiveCommunities returns the distinct community ids currently present,
// ascending.
func (a *AdjMat) LiveCommunities() []int {
	seen := map[int]bool{}
	for _, c := range a.Communities {
		seen[c] = true
	}
	out := make([]int, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// Clone deep-copies the matrix, node index and communities slice, so
// stages that mutate Communities never leak across call boundaries.
func (a *AdjMat) Clone() *AdjMat {
	mat := make([][]int, len(a.Mat))
	for i, row := range a.Mat {
		mat[i] = append([]int(nil), row...)
	}
	nodeMap := append([]types.QualifiedName(nil), a.NodeMap...)
	index := make(map[types.QualifiedName]int, len(a.NodeIndex))
	for k, v := range a.NodeIndex {
		index[k] = v
	}
	communities := append([]int(nil), a.Communities...)
	return &AdjMat{Mat: mat, NodeMap: nodeMap, NodeIndex: index, Communities: communities}
}
