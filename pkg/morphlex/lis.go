package morphlex

// absent is the sentinel for an unmatched position in the matched-index
// sequence longestIncreasingIndices operates on.
const absent = -1

// longestIncreasingIndices computes the longest strictly increasing
// subsequence of seq, ignoring absent (-1) positions, and returns the set
// of values in seq (not positions) that belong to it — the "fixed points"
// that are morphed in place and never moved.
//
// Classic patience-sort with binary search and predecessor links: tails[k]
// holds the index (into seq) of the smallest tail value of any
// increasing subsequence of length k+1 found so far; pred links each
// considered position back to its predecessor in that subsequence.
func longestIncreasingIndices(seq []int) map[int]struct{} {
	tails := make([]int, 0, len(seq))
	pred := make([]int, len(seq))

	for i, v := range seq {
		if v == absent {
			pred[i] = absent

			continue
		}

		pos := searchTails(tails, seq, v)

		if pos == len(tails) {
			tails = append(tails, i)
		} else {
			tails[pos] = i
		}

		if pos > 0 {
			pred[i] = tails[pos-1]
		} else {
			pred[i] = absent
		}
	}

	fixed := make(map[int]struct{}, len(tails))

	if len(tails) == 0 {
		return fixed
	}

	for i := tails[len(tails)-1]; i != absent; i = pred[i] {
		fixed[seq[i]] = struct{}{}
	}

	return fixed
}

// searchTails returns the first index in tails whose seq value is >= v,
// i.e. the insertion point for v under strict-increase patience sort.
func searchTails(tails []int, seq []int, v int) int {
	lo, hi := 0, len(tails)

	for lo < hi {
		mid := (lo + hi) / 2
		if seq[tails[mid]] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}
