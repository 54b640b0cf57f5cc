/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package problem

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// GenerateOpts configures the synthetic problem generator, used for
// stress-testing the pipeline with a large diagonally dominant system.
type GenerateOpts struct {
	N      int
	Seed   int64
	Target []float64 // desired solution x; defaults to all-ones if nil
}

// Generate builds a diagonally dominant n*n matrix A and a right-hand side b
// such that A*Target = b exactly (up to floating point), then writes
// matrix.in/vector.in to dir.
func Generate(dir string, opts GenerateOpts) error {
	n := opts.N
	target := opts.Target
	if target == nil {
		target = make([]float64, n)
		for i := range target {
			target[i] = 1
		}
	}
	if len(target) != n {
		return errors.Errorf("problem: generate: target length %d != n=%d", len(target), n)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	a := make([]float64, n*n)
	b := make([]float64, n)

	for i := 0; i < n; i++ {
		rowSum := 0.0
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := rng.Float64()*2 - 1 // in [-1, 1)
			row[j] = v
			rowSum += abs(v)
		}
		// diagonal dominance with slack, so elimination never meets a zero pivot.
		row[i] = rowSum + float64(n) + 1
	}
	for i := 0; i < n; i++ {
		sum := 0.0
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			sum += row[j] * target[j]
		}
		b[i] = sum
	}

	if err := writeDoubles(filepath.Join(dir, "matrix.in"), a); err != nil {
		return errors.Wrap(err, "problem: write matrix.in")
	}
	if err := writeDoubles(filepath.Join(dir, "vector.in"), b); err != nil {
		return errors.Wrap(err, "problem: write vector.in")
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func writeDoubles(path string, vals []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for i, v := range vals {
		sep := " "
		if i == len(vals)-1 {
			sep = "\n"
		}
		if _, err := f.WriteString(strconv.FormatFloat(v, 'f', -1, 64) + sep); err != nil {
			return err
		}
	}
	return nil
}
