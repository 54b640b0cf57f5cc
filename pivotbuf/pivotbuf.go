// Package pivotbuf implements a fixed-capacity pivot staging area: a
// contiguous region of B*(n+1) doubles addressed by slot index u in [0, B).
// It has no header of its own; occupancy is a property of how much of the
// buffer has been filled, and is communicated to peers via the transport
// frame, not stored in the buffer itself.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package pivotbuf

import "github.com/jramos/dgauss/cmn/debug"

// Buffer is allocated once per participant at the start of elimination and
// released at its end. It is write-once-per-slot from the owner's
// perspective, and read-only once filled for downstream participants that
// received it over the wire.
type Buffer struct {
	b, n int // capacity (pivot units), problem dimension
	data []float64
}

// New allocates a buffer with capacity B pivot units, each of length n+1.
func New(b, n int) *Buffer {
	return &Buffer{b: b, n: n, data: make([]float64, b*(n+1))}
}

// Cap returns B, the buffer's slot capacity.
func (buf *Buffer) Cap() int { return buf.b }

// Width returns n+1, the length of one pivot unit.
func (buf *Buffer) Width() int { return buf.n + 1 }

// Offset returns the local_pivot_offset for slot u: u*(n+1).
func (buf *Buffer) Offset(u int) int {
	debug.Assertf(u >= 0 && u < buf.b, "slot %d out of range [0,%d)", u, buf.b)
	return u * (buf.n + 1)
}

// PutRow writes a pivot unit (row of length n, plus the rhs scalar) into
// slot u. Called only by the pivot's owner.
func (buf *Buffer) PutRow(u int, row []float64, rhs float64) {
	debug.Assertf(len(row) == buf.n, "row length %d != n=%d", len(row), buf.n)
	off := buf.Offset(u)
	copy(buf.data[off:off+buf.n], row)
	buf.data[off+buf.n] = rhs
}

// Row returns the n-length row slice stored at slot u (read-only view).
func (buf *Buffer) Row(u int) []float64 {
	off := buf.Offset(u)
	return buf.data[off : off+buf.n]
}

// RHS returns the rhs scalar stored at slot u.
func (buf *Buffer) RHS(u int) float64 {
	return buf.data[buf.Offset(u)+buf.n]
}

// Prefix returns the first occupancy*(n+1) doubles of the buffer, the exact
// payload a send_block call puts on the wire when the owner ships a
// (possibly short, "owner-exhausted") block.
func (buf *Buffer) Prefix(occupancy int) []float64 {
	debug.Assertf(occupancy >= 1 && occupancy <= buf.b, "occupancy %d out of range", occupancy)
	return buf.data[:occupancy*(buf.n+1)]
}

// LoadPrefix overwrites the buffer's leading occupancy*(n+1) doubles from a
// received payload, the downstream participant's half of recv_block.
func (buf *Buffer) LoadPrefix(payload []float64) (occupancy int) {
	w := buf.n + 1
	debug.Assertf(len(payload)%w == 0, "payload length %d not a multiple of n+1=%d", len(payload), w)
	occupancy = len(payload) / w
	debug.Assertf(occupancy >= 1 && occupancy <= buf.b, "occupancy %d out of range", occupancy)
	copy(buf.data[:len(payload)], payload)
	return occupancy
}
