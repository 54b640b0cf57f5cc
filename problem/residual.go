/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package problem

import "math"

// ResidualTolerance is the per-row threshold the post-hoc residual check
// uses. The check is against the floating-point absolute value of each
// residual component, not an integer-truncating variant.
const ResidualTolerance = 1e-3

// Residual computes r = A*x - b against the *original* (pre-elimination)
// A and b, for the post-hoc system-preservation check.
func Residual(n int, a, b, x []float64) []float64 {
	r := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			sum += row[j] * x[j]
		}
		r[i] = sum - b[i]
	}
	return r
}

// CheckResidual reports the maximum absolute residual and the count of rows
// whose absolute residual is at or above ResidualTolerance.
func CheckResidual(n int, a, b, x []float64) (maxAbs float64, violations int) {
	r := Residual(n, a, b, x)
	for _, v := range r {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
		if av >= ResidualTolerance {
			violations++
		}
	}
	return maxAbs, violations
}
