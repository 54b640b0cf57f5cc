// Package debug provides cheap, always-enabled assertions, following
// aistore's cmn/debug convention of assert-don't-recover for invariants that
// must never fail absent a caller bug.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import "fmt"

// Assert panics if cond is false. Used for invariants assumed to hold by
// construction and for internal bookkeeping invariants
// (partition coverage, buffer slot bounds) that indicate a logic error
// rather than a runtime condition the caller should recover from.
func Assert(cond bool, args ...any) {
	if !cond {
		panic(fmt.Sprint(append([]any{"assertion failed: "}, args...)...))
	}
}

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}

// AssertNoErr panics on a non-nil error that the caller believes is
// impossible (as opposed to errors that propagate to the orchestrator).
func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
