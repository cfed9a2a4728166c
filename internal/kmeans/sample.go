package kmeans

import "math/rand"

// SampleIndices draws n distinct row indices out of total using a rand
// source built from seed. When n >= total it returns 0..total-1 in
// order. Used for the sweep subsample and the classifier sample so both
// are reproducible from the configured seed.
func SampleIndices(total, n int, seed int64) []int {
	if n >= total {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	rng := rand.New(rand.NewSource(seed))
	return rng.Perm(total)[:n]
}
