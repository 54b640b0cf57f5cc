/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package backsub_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jramos/dgauss/backsub"
)

var _ = Describe("Solve", func() {
	It("solves the literal upper-triangular 4x4 scenario", func() {
		resA := []float64{
			1, 2, 3, 4,
			0, 1, 2, 3,
			0, 0, 1, 2,
			0, 0, 0, 1,
		}
		resB := []float64{10, 6, 3, 1}
		x := backsub.Solve(4, resA, resB)
		Expect(x).To(HaveLen(4))
		for _, xi := range x {
			Expect(xi).To(BeNumerically("~", 1, 1e-9))
		}
	})

	It("solves a diagonal system directly", func() {
		resA := []float64{
			2, 0,
			0, 4,
		}
		resB := []float64{4, 8}
		x := backsub.Solve(2, resA, resB)
		Expect(x[0]).To(BeNumerically("~", 2, 1e-9))
		Expect(x[1]).To(BeNumerically("~", 2, 1e-9))
	})
})
