package matcher

// sequenceRatio returns the Ratcliff/Obershelp similarity of a and b in
// [0, 1]: twice the number of matched characters over the total length.
// Matched characters are found by taking the longest common block and
// recursing on both sides of it. Two empty strings are identical.
func sequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingChars(ra, rb)) / float64(total)
}

// matchingChars sums the sizes of the matching blocks of a and b.
func matchingChars(a, b []rune) int {
	index := make(map[rune][]int, len(b))
	for j, r := range b {
		index[r] = append(index[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	matched := 0

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, index, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] inside the
// given bounds. Ties resolve to the block that starts earliest in a, then
// earliest in b.
func longestMatch(a []rune, index map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	lengths := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range index[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return besti, bestj, bestk
}

// Ratio is the Ratcliff/Obershelp similarity of the normalized forms of a
// and b, in [0, 1].
func Ratio(a, b string) float64 {
	return sequenceRatio(Normalize(a), Normalize(b))
}
