/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package transport_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/jramos/dgauss/transport"
)

var _ = Describe("Chain", func() {
	It("wires P-1 links and leaves the ends half-open", func() {
		c := transport.NewChain(4)
		Expect(c.Downstream(0)).NotTo(BeNil())
		Expect(c.Downstream(2)).NotTo(BeNil())
		Expect(c.Downstream(3)).To(BeNil()) // last participant has no downstream
		Expect(c.Upstream(0)).To(BeNil())   // first participant has no upstream
		Expect(c.Upstream(3)).NotTo(BeNil())
	})

	It("delivers a sent block to the paired probe/recv, preserving occupancy", func() {
		c := transport.NewChain(2)
		ctx := context.Background()
		payload := []float64{1, 2, 3, 4, 5, 6} // occupancy 2, width 3

		done := make(chan error, 1)
		go func() {
			done <- c.Downstream(0).Send(ctx, payload, 2)
		}()

		hdr, err := c.Upstream(1).Probe(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hdr.Occupancy).To(BeEquivalentTo(2))
		Expect(hdr.SenderRank).To(Equal(0))

		frame, err := c.Upstream(1).Recv(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Payload).To(Equal(payload))
		Expect(<-done).NotTo(HaveOccurred())
	})

	It("assigns strictly increasing block tags per sender", func() {
		c := transport.NewChain(2)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			go func() { _ = c.Downstream(0).Send(ctx, []float64{1, 2}, 1) }()
			f, err := c.Upstream(1).Recv(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Hdr.BlockTag).To(BeEquivalentTo(uint64(i)))
		}
	})

	It("cancels a pending Send when the context is canceled before delivery", func() {
		c := transport.NewChain(2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := c.Downstream(0).Send(ctx, []float64{1, 2}, 1)
		Expect(err).To(HaveOccurred())
	})
})
