// Package elim implements the main per-pivot elimination loop: depending on
// a participant's rank relative to the current pivot's owner, it either
// originates, relays, or merely applies a pivot block, until every row below
// the diagonal has been eliminated or the participant permanently exits
// (the early-exit rule).
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package elim

import (
	"context"

	"github.com/jramos/dgauss/cmn/debug"
	"github.com/jramos/dgauss/cmn/nlog"
	"github.com/jramos/dgauss/metrics"
	"github.com/jramos/dgauss/partition"
	"github.com/jramos/dgauss/pivotbuf"
	"github.com/jramos/dgauss/transport"
)

// Participant holds one rank's private elimination state: its stripe of A
// and b, its pivot buffer, and its view of the pipeline chain. No
// Participant ever reaches into another's fields; all coordination crosses
// through the chain's Stream.Send/Probe/Recv.
type Participant struct {
	rank    int
	scheme  *partition.Scheme
	chain   *transport.Chain
	buf     *pivotbuf.Buffer
	metrics *metrics.Registry

	localA []float64 // rows_of(rank) * n, row-major
	localB []float64 // rows_of(rank)

	exitedEarly bool // set when the early-exit branch (rank < owner) fires
}

// New builds a Participant from its pre-scattered stripe. localA/localB are
// taken by reference and mutated in place by the elimination loop.
func New(rank int, scheme *partition.Scheme, chain *transport.Chain, blockSize int, m *metrics.Registry, localA, localB []float64) *Participant {
	n := scheme.N()
	rows := scheme.RowsOf(rank)
	debug.Assertf(len(localA) == rows*n, "rank %d: localA length %d != rows*n=%d", rank, len(localA), rows*n)
	debug.Assertf(len(localB) == rows, "rank %d: localB length %d != rows=%d", rank, len(localB), rows)
	return &Participant{
		rank:    rank,
		scheme:  scheme,
		chain:   chain,
		buf:     pivotbuf.New(blockSize, n),
		metrics: m,
		localA:  localA,
		localB:  localB,
	}
}

// LocalA returns the (mutated in place) stripe of A owned by this participant.
func (pt *Participant) LocalA() []float64 { return pt.localA }

// LocalB returns the (mutated in place) stripe of b owned by this participant.
func (pt *Participant) LocalB() []float64 { return pt.localB }

// ExitedEarly reports whether the early-exit branch fired during Run.
func (pt *Participant) ExitedEarly() bool { return pt.exitedEarly }

func (pt *Participant) rankLabel() string { return itoa(pt.rank) }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// Run drives the pivot loop for p = 0 .. n-2, mutating localA/localB toward
// upper-triangular form. It returns nil on natural completion (including the
// early-exit branch) and a non-nil error only on a Transport failure, which
// is fatal to the whole run.
func (pt *Participant) Run(ctx context.Context) error {
	n := pt.scheme.N()
	rows := pt.scheme.RowsOf(pt.rank)
	last := pt.chain.P() - 1

	for p := 0; p < n-1; p++ {
		owner := pt.scheme.OwnerOf(p)

		if pt.rank < owner {
			pt.exitedEarly = true
			nlog.Traceln(pt.rank, "early-exit at pivot", p, "owner", owner)
			break
		}

		localPivotRow := p - pt.scheme.StartOf(owner)
		u := localPivotRow % pt.buf.Cap()

		switch {
		case pt.rank == owner:
			row := pt.localA[localPivotRow*n : localPivotRow*n+n]
			pt.buf.PutRow(u, row, pt.localB[localPivotRow])

			exhausted := localPivotRow == rows-1
			if (u == pt.buf.Cap()-1 || exhausted) && pt.rank != last {
				occupancy := u + 1
				if err := pt.chain.Downstream(pt.rank).Send(ctx, pt.buf.Prefix(occupancy), occupancy); err != nil {
					return err
				}
				pt.metrics.BlocksSent.WithLabelValues(pt.rankLabel()).Inc()
				pt.metrics.BlockOccupancy.Observe(float64(occupancy))
				nlog.Traceln(pt.rank, "sent block through pivot", p, "occupancy", occupancy)
			}

		default: // rank > owner
			if u == 0 {
				upstream := pt.chain.Upstream(pt.rank)
				if _, err := upstream.Probe(ctx); err != nil {
					return err
				}
				frame, err := upstream.Recv(ctx)
				if err != nil {
					return err
				}
				occupancy := pt.buf.LoadPrefix(frame.Payload)
				pt.metrics.BlocksReceived.WithLabelValues(pt.rankLabel()).Inc()

				if pt.rank != last {
					if err := pt.chain.Downstream(pt.rank).Send(ctx, frame.Payload, occupancy); err != nil {
						return err
					}
					pt.metrics.UnitsForwarded.WithLabelValues(pt.rankLabel()).Add(float64(occupancy))
				}
				nlog.Traceln(pt.rank, "received block at pivot", p, "occupancy", occupancy)
			}
		}

		pivotRow := pt.buf.Row(u)
		pivot := pivotRow[p]
		bPivot := pt.buf.RHS(u)

		currentRowStart := 0
		if pt.rank == owner {
			currentRowStart = localPivotRow + 1
		}
		for i := currentRowStart; i < rows; i++ {
			ratio := pt.localA[i*n+p] / pivot
			base := i * n
			for j := p; j < n; j++ {
				pt.localA[base+j] -= ratio * pivotRow[j]
			}
			pt.localB[i] -= ratio * bPivot
		}
	}
	return nil
}
