package rewrite

import (
	"sort"

	"github.com/l3aro/modsplit/pkg/types"
)

// InferModuleNames picks a dotted module name for each community.
// Communities are processed in ascending id order so "already taken by a
// previously-named module" has a deterministic meaning.
func InferModuleNames(groups map[int][]types.Entity) map[types.QualifiedName][]types.Entity {
	named := make(map[types.QualifiedName][]types.Entity, len(groups))
	taken := map[types.QualifiedName]bool{}

	for _, id := range communityIDsAscending(groups) {
		contents := groups[id]
		name := inferOneName(contents, taken)
		named[name] = contents
		taken[name] = true
	}
	return named
}

func inferOneName(contents []types.Entity, taken map[types.QualifiedName]bool) types.QualifiedName {
	if len(contents) == 1 {
		return contents[0].Name()
	}

	// Tally parent names in first-seen order (index order within the
	// community, i.e. the order S10 built the slice in).
	counts := map[types.QualifiedName]int{}
	var order []types.QualifiedName
	for _, ent := range contents {
		p := ent.Name().Parent()
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}

	// Sort candidates by descending count, ties broken by first-seen order.
	candidates := append([]types.QualifiedName(nil), order...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return counts[candidates[i]] > counts[candidates[j]]
	})

	for _, cand := range candidates {
		if !taken[cand] {
			return cand
		}
	}

	best := candidates[0]
	return best + ".mod_overflow"
}

// RenameOverlaps resolves name collisions between a module and its own
// parent path. For each module name N = p.leaf: if p is itself another
// module's name, rename N to p's-parent.(p's-leaf)_(N's-leaf). If exactly
// one module's parent equals p and p itself is unused, that module
// collapses to p instead — the chosen tie-break when both a rename and a
// collapse would resolve the same overlap.
func RenameOverlaps(named map[types.QualifiedName][]types.Entity) map[types.QualifiedName][]types.Entity {
	names := make([]types.QualifiedName, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	moduleSet := make(map[types.QualifiedName]bool, len(names))
	for _, n := range names {
		moduleSet[n] = true
	}

	childrenOf := map[types.QualifiedName][]types.QualifiedName{}
	for _, n := range names {
		p := n.Parent()
		if p == "" {
			continue
		}
		childrenOf[p] = append(childrenOf[p], n)
	}

	renames := map[types.QualifiedName]types.QualifiedName{}
	for p, children := range childrenOf {
		if moduleSet[p] {
			for _, n := range children {
				newName := p.Parent().Join(p.Leaf() + "_" + n.Leaf())
				renames[n] = newName
			}
			continue
		}
		if len(children) == 1 {
			renames[children[0]] = p
		}
	}

	out := make(map[types.QualifiedName][]types.Entity, len(named))
	for n, contents := range named {
		final := n
		if r, ok := renames[n]; ok {
			final = r
		}
		out[final] = contents
	}
	return out
}
