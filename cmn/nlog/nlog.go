// Package nlog provides minimal rank-prefixed structured logging for dgauss.
//
// The verbosity gate is a single process-wide flag read once at startup from
// the DEBUG environment variable (see config.Load); there is no other global
// mutable state in this package.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

var verbose int32 // 0 or 1, set once by SetVerbose at startup

// SetVerbose toggles trace-level output. Called once, from config.Load.
func SetVerbose(v bool) {
	if v {
		atomic.StoreInt32(&verbose, 1)
	} else {
		atomic.StoreInt32(&verbose, 0)
	}
}

func Verbose() bool { return atomic.LoadInt32(&verbose) == 1 }

func stamp() string { return time.Now().Format("15:04:05.000") }

// Infof writes an informational line to stderr, unconditionally.
func Infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "I %s "+format+"\n", append([]any{stamp()}, args...)...)
}

func Infoln(args ...any) {
	fmt.Fprintln(os.Stderr, append([]any{"I", stamp()}, args...)...)
}

// Errorf writes an error line to stderr, unconditionally.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "E %s "+format+"\n", append([]any{stamp()}, args...)...)
}

func Errorln(args ...any) {
	fmt.Fprintln(os.Stderr, append([]any{"E", stamp()}, args...)...)
}

// Traceln writes a rank-prefixed trace line, only when verbose tracing
// (DEBUG=1) is enabled: human readable trace lines prefixed with the
// participant rank.
func Traceln(rank int, args ...any) {
	if !Verbose() {
		return
	}
	fmt.Fprintln(os.Stderr, append([]any{fmt.Sprintf("T[%d]", rank), stamp()}, args...)...)
}

func Tracef(rank int, format string, args ...any) {
	if !Verbose() {
		return
	}
	fmt.Fprintf(os.Stderr, "T[%d] %s "+format+"\n", append([]any{rank, stamp()}, args...)...)
}
