// Package backsub implements the serial triangular solve run only at the
// root, over the gathered upper-triangular res_A and transformed res_b.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package backsub

import "github.com/jramos/dgauss/cmn/debug"

// Solve computes x from an n*n row-major upper-triangular resA and an
// n-length resB. No pivoting, no stability safeguards: the caller is
// responsible for a diagonal that never vanished during elimination.
func Solve(n int, resA, resB []float64) []float64 {
	debug.Assertf(len(resA) == n*n, "backsub: resA length %d != n*n=%d", len(resA), n*n)
	debug.Assertf(len(resB) == n, "backsub: resB length %d != n=%d", len(resB), n)

	x := make([]float64, n)
	x[n-1] = resB[n-1] / resA[(n-1)*n+(n-1)]
	for i := n - 2; i >= 0; i-- {
		sum := 0.0
		row := resA[i*n : i*n+n]
		for j := i + 1; j < n; j++ {
			sum += row[j] * x[j]
		}
		x[i] = (resB[i] - sum) / row[i]
	}
	return x
}
