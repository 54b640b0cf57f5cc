/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package partition_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/jramos/dgauss/partition"
)

var _ = Describe("Scheme", func() {
	Describe("coverage and disjointness", func() {
		cases := []struct {
			n, p int
		}{
			{n: 7, p: 4},
			{n: 100, p: 8},
			{n: 2, p: 2},
			{n: 1000, p: 32},
			{n: 5, p: 2},
		}

		for _, tc := range cases {
			tc := tc
			It("partitions every row exactly once", func() {
				s := partition.New(tc.n, tc.p)

				total := 0
				seen := make([]bool, tc.n)
				for r := 0; r < tc.p; r++ {
					start := s.StartOf(r)
					rows := s.RowsOf(r)
					total += rows
					for i := start; i < start+rows; i++ {
						Expect(seen[i]).To(BeFalse(), "row %d covered twice", i)
						seen[i] = true
					}
				}
				Expect(total).To(Equal(tc.n))
				for i, v := range seen {
					Expect(v).To(BeTrue(), "row %d never covered", i)
				}
			})
		}
	})

	Describe("owner consistency", func() {
		It("agrees with the stripe that contains each row", func() {
			s := partition.New(37, 8)
			for p := 0; p < 37; p++ {
				r := s.OwnerOf(p)
				Expect(p).To(BeNumerically(">=", s.StartOf(r)))
				Expect(p).To(BeNumerically("<", s.StartOf(r)+s.RowsOf(r)))
			}
		})
	})

	Describe("remainder distribution", func() {
		It("gives the first `rem` participants one extra row", func() {
			s := partition.New(7, 4) // base=1, rem=3
			Expect(s.RowsOf(0)).To(Equal(2))
			Expect(s.RowsOf(1)).To(Equal(2))
			Expect(s.RowsOf(2)).To(Equal(2))
			Expect(s.RowsOf(3)).To(Equal(1))
		})
	})

	DescribeTable("LocalIndex reconstructs a global row within its owner's stripe",
		func(n, p, row int) {
			s := partition.New(n, p)
			r := s.OwnerOf(row)
			Expect(s.StartOf(r) + s.LocalIndex(row)).To(Equal(row))
		},
		Entry("first row", 100, 8, 0),
		Entry("last row", 100, 8, 99),
		Entry("mid row, uneven partition", 7, 4, 4),
	)

	Describe("Counts/Displs", func() {
		It("produces a contiguous element-offset layout for gather/scatter", func() {
			s := partition.New(7, 4)
			counts := s.Counts(3) // width 3 e.g. n=3 columns
			displs := s.Displs(3)
			sum := 0
			for r := 0; r < 4; r++ {
				Expect(displs[r]).To(Equal(sum))
				sum += counts[r]
			}
			Expect(sum).To(Equal(7 * 3))
		})
	})
})
