package pool

import "github.com/domino14/vortstelo/tilemapping"

// Subtract removes the letters of target from a working copy of source,
// one matching letter at a time. The letters of target that found no match
// are returned in target order; target is fully contained in source iff
// the result is empty.
func Subtract(target, source tilemapping.Word) tilemapping.Word {
	avail := make(map[tilemapping.Letter]int, len(source))
	for _, l := range source {
		avail[l]++
	}
	return subtractCounts(target, avail)
}

func subtractCounts(target tilemapping.Word, counts map[tilemapping.Letter]int) tilemapping.Word {
	used := map[tilemapping.Letter]int{}
	leftover := tilemapping.Word{}
	for _, l := range target {
		if used[l] < counts[l] {
			used[l]++
			continue
		}
		leftover = append(leftover, l)
	}
	return leftover
}
