package graph

import "sort"

// Strategy is a swappable community-detection optimiser: the deterministic
// agglomerative search below is the only implementation on the default
// production path. Alternative optimisers (simulated annealing, hill
// climbing, genetic search, randomised null-model replicates) may
// implement this interface for research use but must never be reached
// from Run unless a caller explicitly substitutes one in.
type Strategy interface {
	Optimise(a *AdjMat) *AdjMat
}

// ComputeQ computes directed weighted modularity:
//
//	Q(M,c) = (1/T) · Σ_{i,j} [M[i][j] − (out_i·in_j)/T] · 1[c_i=c_j]
//
// where T = Σ_i out_i. Q is defined as 0 when T = 0.
func ComputeQ(mat [][]int, communities []int) float64 {
	n := len(mat)
	if n == 0 {
		return 0
	}
	out := make([]float64, n)
	in := make([]float64, n)
	var total float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := float64(mat[i][j])
			out[i] += v
			in[j] += v
			total += v
		}
	}
	if total == 0 {
		return 0
	}

	var q float64
	for i := 0; i < n; i++ {
		if out[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if communities[i] != communities[j] {
				continue
			}
			expected := out[i] * in[j] / total
			q += float64(mat[i][j]) - expected
		}
	}
	return q / total
}

// relabelled returns a copy of communities with every id==from replaced
// by to, without mutating the input (used to score a hypothetical merge
// before committing to it).
func relabelled(communities []int, from, to int) []int {
	out := append([]int(nil), communities...)
	relabel(out, from, to)
	return out
}

type possibleMerge struct {
	c1, c2 int
	gain   float64
	order  int
}

// AgglomerativeStrategy is the default optimiser: best-merge, applied
// as a disjoint matching per round, until no positive-gain pair remains.
type AgglomerativeStrategy struct{}

func (AgglomerativeStrategy) Optimise(a *AdjMat) *AdjMat {
	a = a.Clone()
	if len(a.Mat) == 0 {
		// An empty entity set is not an error: return the unchanged
		// (zero-row) AdjMat rather than fail.
		return a
	}

	for {
		merges := candidateMerges(a)
		if len(merges) == 0 {
			break
		}
		selected := disjointMatching(merges)
		for _, m := range selected {
			relabel(a.Communities, m.c2, m.c1)
		}
	}
	return a
}

// candidateMerges enumerates every unordered pair of distinct live
// community ids and keeps the ones with positive modularity gain,
// preserving enumeration order (ascending c1, then ascending c2) for the
// tie-break rule in disjointMatching.
func candidateMerges(a *AdjMat) []possibleMerge {
	live := a.LiveCommunities()
	base := ComputeQ(a.Mat, a.Communities)

	var merges []possibleMerge
	order := 0
	for i, c1 := range live {
		for _, c2 := range live[i+1:] {
			merged := relabelled(a.Communities, c2, c1)
			gain := ComputeQ(a.Mat, merged) - base
			if gain > 0 {
				merges = append(merges, possibleMerge{c1: c1, c2: c2, gain: gain, order: order})
			}
			order++
		}
	}
	return merges
}

// disjointMatching sorts by descending gain (ties broken by ascending
// enumeration order, i.e. ascending c1 then c2) and greedily selects a
// maximal set of pairs such that no community id appears twice.
func disjointMatching(merges []possibleMerge) []possibleMerge {
	sorted := append([]possibleMerge(nil), merges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].gain != sorted[j].gain {
			return sorted[i].gain > sorted[j].gain
		}
		return sorted[i].order < sorted[j].order
	})

	seen := map[int]bool{}
	var selected []possibleMerge
	for _, m := range sorted {
		if seen[m.c1] || seen[m.c2] {
			continue
		}
		selected = append(selected, m)
		seen[m.c1] = true
		seen[m.c2] = true
	}
	return selected
}

// OptimiseCommunities is the pipeline's community-detection entrypoint,
// wired to the default agglomerative strategy.
func OptimiseCommunities(a *AdjMat) *AdjMat {
	return AgglomerativeStrategy{}.Optimise(a)
}
