package graph

// CollapseExclusivePairs pre-merges exclusive call pairs before community
// detection runs. Operating on a binarised matrix B = (M > 0), for every
// (i,j) with B[i][j]=1, out_deg[i]=1, in_deg[j]=1, it collapses
// community[j] into community[i] when they differ: i calls nothing else,
// and j is called by nothing else, so the two belong together regardless
// of what modularity would otherwise suggest. The set of qualifying (i,j)
// pairs depends only on the binarised graph, which never changes during
// this stage, so it is computed once; merges are then applied in a fixed
// pass order, repeated until a full pass makes no further change.
func CollapseExclusivePairs(a *AdjMat) *AdjMat {
	a = a.Clone()
	n := len(a.Mat)
	if n == 0 {
		return a
	}

	bin := make([][]bool, n)
	outDeg := make([]int, n)
	inDeg := make([]int, n)
	for i := 0; i < n; i++ {
		bin[i] = make([]bool, n)
		for j := 0; j < n; j++ {
			if a.Mat[i][j] > 0 {
				bin[i][j] = true
				outDeg[i]++
				inDeg[j]++
			}
		}
	}

	type pair struct{ i, j int }
	var candidates []pair
	for i := 0; i < n; i++ {
		if outDeg[i] != 1 {
			continue
		}
		for j := 0; j < n; j++ {
			if bin[i][j] && inDeg[j] == 1 {
				candidates = append(candidates, pair{i, j})
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range candidates {
			if a.Communities[p.i] != a.Communities[p.j] {
				relabel(a.Communities, a.Communities[p.j], a.Communities[p.i])
				changed = true
			}
		}
	}

	return a
}

// relabel sets every community id equal to from to to, in place.
func relabel(communities []int, from, to int) {
	if from == to {
		return
	}
	for i, c := range communities {
		if c == from {
			communities[i] = to
		}
	}
}
