package kmeans

import (
	"errors"
	"math"
	"runtime"
	"sync"
)

// MeanSilhouette computes the mean silhouette coefficient over all
// points: per point, (b - a) / max(a, b) where a is the mean distance
// to its own cluster and b the mean distance to the nearest other
// cluster. Points in singleton clusters contribute 0, which keeps the
// mean in [-1, 1]. O(n²) — callers subsample.
func MeanSilhouette(data [][]float64, labels []int, k int) float64 {
	n := len(data)
	if n == 0 || k < 2 {
		return 0
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i, p := range data {
		for c := range sums {
			sums[c] = 0
		}
		for j, q := range data {
			if i == j {
				continue
			}
			sums[labels[j]] += euclidean(p, q)
		}

		own := labels[i]
		if sizes[own] < 2 {
			continue // singleton: silhouette defined as 0
		}
		a := sums[own] / float64(sizes[own]-1)

		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if m := sums[c] / float64(sizes[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue // no other non-empty cluster
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// KStat is one row of the cluster-count sweep.
type KStat struct {
	K          int
	SSE        float64
	Silhouette float64
	Converged  bool
}

// Sweep fits one model per K in [kMin, kMax] and records SSE and mean
// silhouette for each. The fits are independent, so candidate Ks are
// fanned out over a worker pool through a jobs channel and the partial
// results are merged back in ascending K; each fit carries its own
// seeded rand source, so the rows do not depend on scheduling. The same
// seed is reused per fit and non-convergence is recorded, not fatal.
// The second return value lists the Ks whose fit failed outright
// (for example K larger than the data); those produce no row.
func Sweep(data [][]float64, kMin, kMax int, cfg Config) ([]KStat, []int) {
	n := kMax - kMin + 1
	if n <= 0 {
		return nil, nil
	}

	type row struct {
		idx  int
		stat KStat
		ok   bool
	}
	jobs := make(chan int, n)
	results := make(chan row, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for k := range jobs {
				c := cfg
				c.K = k
				m, err := Fit(data, c)
				if err != nil && !errors.Is(err, ErrNoConvergence) {
					results <- row{idx: k - kMin}
					continue
				}
				results <- row{idx: k - kMin, ok: true, stat: KStat{
					K:          k,
					SSE:        m.SSE,
					Silhouette: MeanSilhouette(data, m.Labels, k),
					Converged:  m.Converged,
				}}
			}
		}()
	}
	for k := kMin; k <= kMax; k++ {
		jobs <- k
	}
	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	rows := make([]*KStat, n)
	for r := range results {
		if r.ok {
			s := r.stat
			rows[r.idx] = &s
		}
	}
	var stats []KStat
	var skipped []int
	for i, r := range rows {
		if r == nil {
			skipped = append(skipped, kMin+i)
			continue
		}
		stats = append(stats, *r)
	}
	return stats, skipped
}
