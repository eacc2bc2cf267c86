// Package rewrite turns a grouped entity set into the final rewritten
// module tree: grouping entities by community, inferring and
// deduplicating module names, remapping imports, and materialising the
// final {path: source} tree.
package rewrite

import (
	"sort"

	"github.com/l3aro/modsplit/pkg/graph"
	"github.com/l3aro/modsplit/pkg/types"
)

// Group builds {community_id: [Entity]} by iterating the AdjMat's
// communities in index order.
func Group(a *graph.AdjMat, entities map[types.QualifiedName]types.Entity) map[int][]types.Entity {
	groups := map[int][]types.Entity{}
	for idx, name := range a.NodeMap {
		ent, ok := entities[name]
		if !ok {
			continue
		}
		c := a.Communities[idx]
		groups[c] = append(groups[c], ent)
	}
	return groups
}

// communityIDsAscending returns the live community ids of a grouping in
// ascending order, for deterministic downstream processing.
func communityIDsAscending(groups map[int][]types.Entity) []int {
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
