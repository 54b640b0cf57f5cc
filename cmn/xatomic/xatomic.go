// Package xatomic wraps sync/atomic with typed counters, the same thin
// convenience layer aistore's cmn/atomic provides (Int64, Int32, Bool). The
// transport uses Int64 for its per-link send and receive block tags.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package xatomic

import "sync/atomic"

type Int64 struct{ v int64 }

func (i *Int64) Load() int64       { return atomic.LoadInt64(&i.v) }
func (i *Int64) Store(n int64)     { atomic.StoreInt64(&i.v, n) }
func (i *Int64) Inc() int64        { return atomic.AddInt64(&i.v, 1) }
func (i *Int64) Add(n int64) int64 { return atomic.AddInt64(&i.v, n) }

type Int32 struct{ v int32 }

func (i *Int32) Load() int32   { return atomic.LoadInt32(&i.v) }
func (i *Int32) Store(n int32) { atomic.StoreInt32(&i.v, n) }
func (i *Int32) Inc() int32    { return atomic.AddInt32(&i.v, 1) }
func (i *Int32) Dec() int32    { return atomic.AddInt32(&i.v, -1) }

type Bool struct{ v int32 }

func (b *Bool) Load() bool {
	return atomic.LoadInt32(&b.v) == 1
}

func (b *Bool) Store(v bool) {
	if v {
		atomic.StoreInt32(&b.v, 1)
	} else {
		atomic.StoreInt32(&b.v, 0)
	}
}

func (b *Bool) CAS(old, nw bool) bool {
	var o, n int32
	if old {
		o = 1
	}
	if nw {
		n = 1
	}
	return atomic.CompareAndSwapInt32(&b.v, o, n)
}
