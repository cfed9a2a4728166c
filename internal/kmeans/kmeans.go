// Package kmeans implements seeded K-means over dense float vectors,
// with the quality measures the cluster-count sweep needs (within-cluster
// SSE and mean silhouette). The library clusterer used elsewhere in the
// project exposes neither centroids nor a seed, so the final fit lives here.
package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrNoConvergence reports that the iteration cap was hit before the
// centroids settled. The returned model still holds the last iterate;
// callers log the condition and proceed.
var ErrNoConvergence = errors.New("kmeans did not converge within the iteration cap")

// Config controls one fit. Seed drives centroid initialization, so two
// fits with identical data and Config produce identical models.
type Config struct {
	K             int
	MaxIterations int
	Tolerance     float64 // centroid movement (Euclidean) below which the fit stops
	Seed          int64
}

// Model is a fitted clustering: K centroids plus the label of every
// input row. Assignment is nearest centroid by Euclidean distance.
type Model struct {
	K          int
	Centroids  [][]float64
	Labels     []int
	SSE        float64 // total within-cluster sum of squared distances
	Iterations int
	Converged  bool
}

// Fit clusters data into cfg.K groups. Initial centroids are spread
// farthest-first over the observations; a cluster emptied during the
// loop is re-seeded with the point farthest from its centroid.
func Fit(data [][]float64, cfg Config) (*Model, error) {
	n := len(data)
	if cfg.K < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", cfg.K)
	}
	if n < cfg.K {
		return nil, fmt.Errorf("need at least k=%d points, got %d", cfg.K, n)
	}
	dim := len(data[0])

	rng := rand.New(rand.NewSource(cfg.Seed))
	centroids := initialCentroids(data, cfg.K, rng)

	labels := make([]int, n)
	iter := 0
	converged := false
	for ; iter < cfg.MaxIterations; iter++ {
		// assignment step
		for i, p := range data {
			labels[i] = nearest(p, centroids)
		}

		// update step
		next := make([][]float64, cfg.K)
		counts := make([]int, cfg.K)
		for c := range next {
			next[c] = make([]float64, dim)
		}
		for i, p := range data {
			c := labels[i]
			counts[c]++
			for j, v := range p {
				next[c][j] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// re-seed from the globally farthest point
				next[c] = append([]float64(nil), data[farthest(data, labels, centroids)]...)
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}

		moved := 0.0
		for c := range centroids {
			moved += euclidean(centroids[c], next[c])
		}
		centroids = next
		if moved < cfg.Tolerance {
			converged = true
			iter++
			break
		}
	}

	// final assignment against the settled centroids
	sse := 0.0
	for i, p := range data {
		labels[i] = nearest(p, centroids)
		d := euclidean(p, centroids[labels[i]])
		sse += d * d
	}

	m := &Model{
		K:          cfg.K,
		Centroids:  centroids,
		Labels:     labels,
		SSE:        sse,
		Iterations: iter,
		Converged:  converged,
	}
	if !converged {
		return m, ErrNoConvergence
	}
	return m, nil
}

// initialCentroids seeds K starting centroids farthest-first: the first
// is a random observation, each subsequent one the observation farthest
// from its nearest already-chosen centroid. Purely random draws can put
// two starting centroids inside one tight group and settle there.
func initialCentroids(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := append([]float64(nil), data[rng.Intn(len(data))]...)
	centroids = append(centroids, first)

	minDist := make([]float64, len(data))
	for i, p := range data {
		minDist[i] = euclidean(p, first)
	}
	for len(centroids) < k {
		best, bestDist := 0, -1.0
		for i, d := range minDist {
			if d > bestDist {
				bestDist = d
				best = i
			}
		}
		next := append([]float64(nil), data[best]...)
		centroids = append(centroids, next)
		for i, p := range data {
			if d := euclidean(p, next); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

// Assign returns the nearest-centroid label for a single point.
func (m *Model) Assign(p []float64) int {
	return nearest(p, m.Centroids)
}

func nearest(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, ct := range centroids {
		if d := euclidean(p, ct); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// farthest finds the point with the greatest distance to its assigned
// centroid, used to re-seed an emptied cluster.
func farthest(data [][]float64, labels []int, centroids [][]float64) int {
	best, bestDist := 0, -1.0
	for i, p := range data {
		if d := euclidean(p, centroids[labels[i]]); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
