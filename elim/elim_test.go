/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package elim_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"golang.org/x/sync/errgroup"

	"github.com/jramos/dgauss/elim"
	"github.com/jramos/dgauss/gather"
	"github.com/jramos/dgauss/metrics"
	"github.com/jramos/dgauss/partition"
	"github.com/jramos/dgauss/transport"
)

// run scatters a, b across p participants with block size B, drives the
// Elimination Engine to completion, and gathers the upper-triangular result.
// It mirrors orchestrator.Solve's scatter/run/gather shape but stays local to
// this package so elim's tests don't reach through the Orchestrator.
func run(n, p, blockSize int, a, b []float64) (resA, resB []float64, participants []*elim.Participant, err error) {
	scheme := partition.New(n, p)
	chain := transport.NewChain(p)
	reg := metrics.New()

	countsA, displsA := scheme.Counts(n), scheme.Displs(n)
	countsB, displsB := scheme.Counts(1), scheme.Displs(1)

	participants = make([]*elim.Participant, p)
	for r := 0; r < p; r++ {
		stripeA := make([]float64, countsA[r])
		copy(stripeA, a[displsA[r]:displsA[r]+countsA[r]])
		stripeB := make([]float64, countsB[r])
		copy(stripeB, b[displsB[r]:displsB[r]+countsB[r]])
		participants[r] = elim.New(r, scheme, chain, blockSize, reg, stripeA, stripeB)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for r := 0; r < p; r++ {
		pt := participants[r]
		g.Go(func() error { return pt.Run(ctx) })
	}
	if err = g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	stripesA := make([][]float64, p)
	stripesB := make([][]float64, p)
	for r := 0; r < p; r++ {
		stripesA[r] = participants[r].LocalA()
		stripesB[r] = participants[r].LocalB()
	}
	resA, resB = gather.Gather(scheme, stripesA, stripesB)
	return resA, resB, participants, nil
}

var _ = Describe("Participant.Run", func() {
	It("eliminates a trivial 2x2 system", func() {
		a := []float64{2, 1, 1, 3}
		b := []float64{3, 4}
		resA, resB, _, err := run(2, 2, 20, a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(resA[1*2+0]).To(BeNumerically("~", 0, 1e-9))
		Expect(resB).To(HaveLen(2))
	})

	It("leaves an already-diagonal 4x4 system untouched below the diagonal", func() {
		a := []float64{
			2, 0, 0, 0,
			0, 4, 0, 0,
			0, 0, 8, 0,
			0, 0, 0, 16,
		}
		b := []float64{2, 8, 24, 64}
		resA, _, _, err := run(4, 2, 20, a, b)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 4; i++ {
			for j := 0; j < i; j++ {
				Expect(resA[i*4+j]).To(BeNumerically("~", 0, 1e-9))
			}
		}
	})

	It("is a no-op on an already upper-triangular 4x4 system, one row per rank", func() {
		a := []float64{
			1, 2, 3, 4,
			0, 1, 2, 3,
			0, 0, 1, 2,
			0, 0, 0, 1,
		}
		b := []float64{10, 6, 3, 1}
		resA, resB, _, err := run(4, 4, 1, a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(resA).To(Equal(a))
		Expect(resB).To(Equal(b))
	})

	It("flags early exit only for ranks strictly below the final pivot's owner", func() {
		a := []float64{
			1, 0.1, 0.1, 0.1,
			0.1, 2, 0.1, 0.1,
			0.1, 0.1, 3, 0.1,
			0.1, 0.1, 0.1, 4,
		}
		b := []float64{1, 1, 1, 1}
		_, _, participants, err := run(4, 4, 1, a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(participants[0].ExitedEarly()).To(BeTrue())
		Expect(participants[1].ExitedEarly()).To(BeTrue())
		Expect(participants[2].ExitedEarly()).To(BeFalse())
		Expect(participants[3].ExitedEarly()).To(BeFalse())
	})

	It("triangularizes an uneven partition (n=7, P=4) within tolerance", func() {
		n, p := 7, 4
		a := make([]float64, n*n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				a[i*n+j] = 0.1
			}
			a[i*n+i] = float64(i + 1)
		}
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += a[i*n+j]
			}
			b[i] = sum // so that x = [1,...,1] solves A*x=b
		}
		resA, _, _, err := run(n, p, 3, a, b)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				Expect(resA[i*n+j]).To(BeNumerically("~", 0, 1e-9))
			}
		}
	})

	DescribeTable("block size does not change the triangularized result beyond tolerance",
		func(blockSize1, blockSize2 int) {
			n, p := 20, 4
			a := make([]float64, n*n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					a[i*n+j] = 0.01 * float64((i+1)*(j+1)%7)
				}
				a[i*n+i] = float64(n * 5)
			}
			b := make([]float64, n)
			for i := 0; i < n; i++ {
				sum := 0.0
				for j := 0; j < n; j++ {
					sum += a[i*n+j]
				}
				b[i] = sum
			}

			resA1, resB1, _, err := run(n, p, blockSize1, a, b)
			Expect(err).NotTo(HaveOccurred())
			resA2, resB2, _, err := run(n, p, blockSize2, a, b)
			Expect(err).NotTo(HaveOccurred())

			for i := range resA1 {
				Expect(resA1[i]).To(BeNumerically("~", resA2[i], 1e-9))
			}
			for i := range resB1 {
				Expect(resB1[i]).To(BeNumerically("~", resB2[i], 1e-9))
			}
		},
		Entry("B=1 vs B=5", 1, 5),
		Entry("B=5 vs B=20", 5, 20),
		Entry("B=1 vs B=100", 1, 100),
	)

	It("propagates a canceled-context transport failure out of Run as a fatal error", func() {
		n, p := 4, 2
		a := []float64{2, 1, 0, 0, 1, 2, 0, 0, 0, 0, 3, 1, 0, 0, 1, 3}
		b := []float64{1, 1, 1, 1}

		scheme := partition.New(n, p)
		chain := transport.NewChain(p)
		reg := metrics.New()
		countsA, displsA := scheme.Counts(n), scheme.Displs(n)
		countsB, displsB := scheme.Counts(1), scheme.Displs(1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // upstream rank 1 will fail its first Probe immediately

		g, gctx := errgroup.WithContext(ctx)
		for r := 0; r < p; r++ {
			stripeA := make([]float64, countsA[r])
			copy(stripeA, a[displsA[r]:displsA[r]+countsA[r]])
			stripeB := make([]float64, countsB[r])
			copy(stripeB, b[displsB[r]:displsB[r]+countsB[r]])
			pt := elim.New(r, scheme, chain, 1, reg, stripeA, stripeB)
			g.Go(func() error { return pt.Run(gctx) })
		}
		err := g.Wait()
		Expect(err).To(HaveOccurred())
	})
})
