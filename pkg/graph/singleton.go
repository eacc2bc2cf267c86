package graph

import (
	"sort"

	"github.com/l3aro/modsplit/pkg/types"
)

// directoryOf returns the qualified name minus its last two segments: the
// source file's containing directory (distinct from
// types.QualifiedName.Parent, which strips only one segment). A name with
// fewer than three segments has no directory.
func directoryOf(q types.QualifiedName) (types.QualifiedName, bool) {
	segs := q.Segments()
	if len(segs) < 3 {
		return "", false
	}
	return types.QualifiedName(joinSegs(segs[:len(segs)-2])), true
}

func joinSegs(segs []string) string {
	out := ""
	for i, s := range segs {
		if i > 0 {
			out += "."
		}
		out += s
	}
	return out
}

// RescueSingletons catches communities agglomeration left as a single
// entity: for each singleton community whose sole entity's directory
// matches another community's directory, it proposes merging it into the
// smallest-id community sharing that directory. Accept when gain ≥ 0 (not
// strict, since a singleton left alone has nothing to lose by joining its
// own source directory). All accepted merges are computed against the
// pre-rescue state and then applied together.
func RescueSingletons(a *AdjMat) *AdjMat {
	a = a.Clone()
	if len(a.Mat) == 0 {
		return a
	}

	byCommunity := map[int][]int{} // community id -> node indices
	for idx, c := range a.Communities {
		byCommunity[c] = append(byCommunity[c], idx)
	}

	dirToCommunities := map[types.QualifiedName]map[int]bool{}
	for idx, name := range a.NodeMap {
		dir, ok := directoryOf(name)
		if !ok {
			continue
		}
		c := a.Communities[idx]
		if dirToCommunities[dir] == nil {
			dirToCommunities[dir] = map[int]bool{}
		}
		dirToCommunities[dir][c] = true
	}

	base := ComputeQ(a.Mat, a.Communities)

	type accepted struct{ from, to int }
	var merges []accepted

	// Deterministic order: iterate singleton communities ascending by id.
	var singletonIDs []int
	for c, nodes := range byCommunity {
		if len(nodes) == 1 {
			singletonIDs = append(singletonIDs, c)
		}
	}
	sort.Ints(singletonIDs)

	for _, c := range singletonIDs {
		node := byCommunity[c][0]
		dir, ok := directoryOf(a.NodeMap[node])
		if !ok {
			continue
		}
		candidates := dirToCommunities[dir]
		if len(candidates) < 2 {
			continue // only this singleton's own community shares the directory
		}
		target := -1
		for other := range candidates {
			if other == c {
				continue
			}
			if target == -1 || other < target {
				target = other
			}
		}
		if target == -1 {
			continue
		}
		gain := ComputeQ(a.Mat, relabelled(a.Communities, c, target)) - base
		if gain >= 0 {
			merges = append(merges, accepted{from: c, to: target})
		}
	}

	sort.Slice(merges, func(i, j int) bool { return merges[i].from < merges[j].from })
	for _, m := range merges {
		relabel(a.Communities, m.from, m.to)
	}

	return a
}
