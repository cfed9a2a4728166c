// Package pca projects the feature matrix onto its leading principal
// components so the clustering can be plotted in two dimensions.
package pca

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project returns the data projected onto the first components
// principal axes, one row per input row.
func Project(data [][]float64, components int) ([][]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, errors.New("no rows to project")
	}
	d := len(data[0])
	if components > d {
		return nil, errors.New("more components than feature columns")
	}

	m := mat.NewDense(n, d, nil)
	for i, row := range data {
		m.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, errors.New("principal component decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// project the centered data onto the leading axes
	means := make([]float64, d)
	for _, row := range data {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}
	centered := mat.NewDense(n, d, nil)
	for i, row := range data {
		c := make([]float64, d)
		for j, v := range row {
			c[j] = v - means[j]
		}
		centered.SetRow(i, c)
	}

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, d, 0, components))

	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, components)
		for j := 0; j < components; j++ {
			row[j] = proj.At(i, j)
		}
		out[i] = row
	}
	return out, nil
}
