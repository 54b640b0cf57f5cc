// Package transport implements a unidirectional chain r -> r+1 of
// point-to-point links carrying typed, tagged pivot-block messages with
// variable-length receive.
//
// The shape mirrors aistore's transport.Stream: a header (Hdr) plus a
// payload, sent and consumed through an explicit, synchronous API. Where
// aistore's Stream carries an io.Reader body over an HTTP connection between
// daemons, dgauss's Stream carries a []float64 payload over a Go channel
// between goroutines. The distinct-address-space model is honored by always
// copying the payload across the channel boundary rather than sharing the
// owner's buffer slice.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"context"

	"github.com/jramos/dgauss/cmn/cos"
	"github.com/jramos/dgauss/cmn/debug"
	"github.com/jramos/dgauss/cmn/xatomic"
)

// Hdr is the frame header carried ahead of every pivot-block payload.
// Occupancy must be discovered from the header before the payload is
// copied, via the probe-then-receive pattern below.
type Hdr struct {
	SenderRank int
	BlockTag   uint64
	Occupancy  int32
	Checksum   uint64
}

// Frame is one wire message: a header plus its payload.
type Frame struct {
	Hdr     Hdr
	Payload []float64
}

// ErrChecksumMismatch is a Transport error: fatal to the whole run, never
// retried.
type ErrChecksumMismatch struct {
	From, To int
	Tag      uint64
}

func (e *ErrChecksumMismatch) Error() string {
	return "transport: checksum mismatch on block " + itoa(e.Tag) + " from rank " + itoa(uint64(e.From)) + " to rank " + itoa(uint64(e.To))
}

// ErrOutOfOrder is a Transport error raised when a received block tag does
// not match the expected next tag for its (sender, receiver) pair: the FIFO
// ordering guarantee on the link has been violated.
type ErrOutOfOrder struct {
	From, To      int
	Want, Got     uint64
}

func (e *ErrOutOfOrder) Error() string {
	return "transport: out-of-order block from rank " + itoa(uint64(e.From)) + " to rank " + itoa(uint64(e.To)) +
		": want tag " + itoa(e.Want) + ", got " + itoa(e.Got)
}

func itoa(u uint64) string {
	if u == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}

// Stream is one directed link, from rank `from` to rank `to` = from+1. Only
// `from` ever sends on it; only `to` ever receives. The unbuffered channel
// makes Send synchronous from the caller's point of view (blocking send,
// blocking probe+receive) while still letting the sender move on as soon as
// the receiver has taken delivery.
type Stream struct {
	from, to int
	ch       chan Frame
	sendTag  xatomic.Int64
	recvTag  xatomic.Int64

	mu     chanMutex
	peeked *Frame
}

// chanMutex is a 1-capacity semaphore; used instead of sync.Mutex purely to
// keep this package's suspension points limited to channel operations.
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	m := make(chanMutex, 1)
	m <- struct{}{}
	return m
}

func (m chanMutex) lock()   { <-m }
func (m chanMutex) unlock() { m <- struct{}{} }

func newStream(from, to int) *Stream {
	return &Stream{from: from, to: to, ch: make(chan Frame), mu: newChanMutex()}
}

// Send ships a copy of the whole payload downstream, with occupancy recorded
// in the header; the caller passes exactly occupancy*(n+1) doubles. It
// assigns the next block tag for this (sender) and blocks until the
// receiver accepts delivery or ctx is canceled.
func (s *Stream) Send(ctx context.Context, payload []float64, occupancy int) error {
	debug.Assertf(occupancy > 0, "send with non-positive occupancy %d", occupancy)
	tag := uint64(s.sendTag.Load())
	s.sendTag.Inc()

	// the payload is copied here so the sender's buffer (which it keeps
	// using/reusing) is never aliased by the receiver; the only shared
	// resource is the message itself, logically owned by the receiver
	// once sent.
	cp := make([]float64, len(payload))
	copy(cp, payload)

	frame := Frame{
		Hdr: Hdr{
			SenderRank: s.from,
			BlockTag:   tag,
			Occupancy:  int32(occupancy),
			Checksum:   cos.ChecksumBlock(cp),
		},
		Payload: cp,
	}
	select {
	case s.ch <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Probe blocks until the next frame's header is available, without
// consuming the payload: the probe half of the two-phase probe-then-receive
// pattern. A subsequent Recv call returns this same frame.
func (s *Stream) Probe(ctx context.Context) (Hdr, error) {
	s.mu.lock()
	defer s.mu.unlock()
	if s.peeked != nil {
		return s.peeked.Hdr, nil
	}
	select {
	case f := <-s.ch:
		s.peeked = &f
		return f.Hdr, nil
	case <-ctx.Done():
		return Hdr{}, ctx.Err()
	}
}

// Recv returns the next frame (probing first if Probe was not already
// called), validating its checksum and block-tag ordering. A validation
// failure is a fatal Transport error.
func (s *Stream) Recv(ctx context.Context) (Frame, error) {
	s.mu.lock()
	var f Frame
	if s.peeked != nil {
		f = *s.peeked
		s.peeked = nil
		s.mu.unlock()
	} else {
		s.mu.unlock()
		select {
		case f = <-s.ch:
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}

	want := uint64(s.recvTag.Load())
	if f.Hdr.BlockTag != want {
		return Frame{}, &ErrOutOfOrder{From: s.from, To: s.to, Want: want, Got: f.Hdr.BlockTag}
	}
	s.recvTag.Inc()

	if cos.ChecksumBlock(f.Payload) != f.Hdr.Checksum {
		return Frame{}, &ErrChecksumMismatch{From: s.from, To: s.to, Tag: f.Hdr.BlockTag}
	}
	return f, nil
}

// Chain is the full set of P-1 point-to-point links of a pipeline of P
// participants: link r connects rank r (sender) to rank r+1 (receiver).
type Chain struct {
	p     int
	links []*Stream
}

// NewChain builds the P-1 links for a pipeline of p participants.
func NewChain(p int) *Chain {
	debug.Assertf(p > 0, "chain with non-positive participant count %d", p)
	c := &Chain{p: p, links: make([]*Stream, 0, p-1)}
	for r := 0; r < p-1; r++ {
		c.links = append(c.links, newStream(r, r+1))
	}
	return c
}

// P returns the participant count this chain was built for.
func (c *Chain) P() int { return c.p }

// Downstream returns the link participant r sends on (nil if r is last).
func (c *Chain) Downstream(r int) *Stream {
	if r < 0 || r >= c.p-1 {
		return nil
	}
	return c.links[r]
}

// Upstream returns the link participant r receives on (nil if r is 0).
func (c *Chain) Upstream(r int) *Stream {
	if r <= 0 || r > c.p-1 {
		return nil
	}
	return c.links[r-1]
}
