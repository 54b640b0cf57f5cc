// Package gather implements a variable-stride gather of every participant's
// eliminated stripe into a single upper-triangular matrix and transformed
// right-hand side at rank 0.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package gather

import (
	"github.com/jramos/dgauss/cmn/debug"
	"github.com/jramos/dgauss/partition"
)

// Gather concatenates per-participant stripes (in rank order) into the
// global res_A (n*n) and res_b (n) arrays, using the same Counts/Displs the
// partitioner derives for the scatter. A barrier is expected to have already
// synchronized all participants before this is called; see orchestrator.Solve,
// which waits on every participant's Run to return before gathering. The
// barrier is not required for correctness here but is kept for clean
// instrumentation boundaries.
func Gather(scheme *partition.Scheme, stripesA, stripesB [][]float64) (resA, resB []float64) {
	n := scheme.N()
	p := scheme.P()
	debug.Assertf(len(stripesA) == p && len(stripesB) == p, "gather: expected %d stripes, got %d/%d", p, len(stripesA), len(stripesB))

	countsA, displsA := scheme.Counts(n), scheme.Displs(n)
	countsB, displsB := scheme.Counts(1), scheme.Displs(1)

	resA = make([]float64, n*n)
	resB = make([]float64, n)

	for r := 0; r < p; r++ {
		debug.Assertf(len(stripesA[r]) == countsA[r], "gather: rank %d stripeA length %d != expected %d", r, len(stripesA[r]), countsA[r])
		debug.Assertf(len(stripesB[r]) == countsB[r], "gather: rank %d stripeB length %d != expected %d", r, len(stripesB[r]), countsB[r])
		copy(resA[displsA[r]:displsA[r]+countsA[r]], stripesA[r])
		copy(resB[displsB[r]:displsB[r]+countsB[r]], stripesB[r])
	}
	return resA, resB
}
