// Package orchestrator validates inputs, scatters the problem across
// participants, drives the elimination loop, gathers the result, runs the
// back-substitution, and invokes the result-writer and residual-check
// collaborators, in that order.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jramos/dgauss/backsub"
	"github.com/jramos/dgauss/cmn/debug"
	"github.com/jramos/dgauss/cmn/nlog"
	"github.com/jramos/dgauss/config"
	"github.com/jramos/dgauss/elim"
	"github.com/jramos/dgauss/gather"
	"github.com/jramos/dgauss/metrics"
	"github.com/jramos/dgauss/partition"
	"github.com/jramos/dgauss/problem"
	"github.com/jramos/dgauss/transport"
)

// Result is everything a caller (the CLI, or a test) might want out of one run.
type Result struct {
	X           []float64
	ResA, ResB  []float64
	MaxResidual float64
	Violations  int
	Metrics     string
}

// Run executes one end-to-end solve: load -> scatter -> eliminate -> gather
// -> back-substitute -> residual check -> write. It does not itself print
// the one user-visible error line at r=0; callers (cmd/dgauss) own that
// formatting so Run stays usable from tests.
func Run(cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a, err := problem.LoadMatrix(cfg.WorkDir, cfg.N)
	if err != nil {
		return nil, err
	}
	b, err := problem.LoadVector(cfg.WorkDir, cfg.N)
	if err != nil {
		return nil, err
	}

	resA, resB, err := Solve(cfg, a, b)
	if err != nil {
		return nil, err
	}

	x := backsub.Solve(cfg.N, resA, resB)

	if err := problem.WriteResult(cfg.WorkDir, x); err != nil {
		return nil, err
	}

	maxResidual, violations := problem.CheckResidual(cfg.N, a, b, x)
	nlog.Infof("solved n=%d participants=%d block-size=%d max-residual=%g violations=%d",
		cfg.N, cfg.Participants, cfg.BlockSize, maxResidual, violations)

	return &Result{X: x, ResA: resA, ResB: resB, MaxResidual: maxResidual, Violations: violations}, nil
}

// Solve runs just the distributed elimination and gather stage (scatter
// through gather), returning the upper-triangular res_A/res_b pair. Exposed
// separately from Run so tests can exercise the core kernel against literal
// A/b without touching the filesystem.
func Solve(cfg *config.Config, a, b []float64) (resA, resB []float64, err error) {
	n := cfg.N
	p := cfg.Participants
	debug.Assertf(len(a) == n*n, "orchestrator: A length %d != n*n=%d", len(a), n*n)
	debug.Assertf(len(b) == n, "orchestrator: b length %d != n=%d", len(b), n)

	scheme := partition.New(n, p)
	chain := transport.NewChain(p)
	reg := metrics.New()

	// scatter: every participant gets its own copy of its stripe, never a
	// slice aliasing the root's A/b. No shared memory between participants.
	countsA, displsA := scheme.Counts(n), scheme.Displs(n)
	countsB, displsB := scheme.Counts(1), scheme.Displs(1)

	participants := make([]*elim.Participant, p)
	for r := 0; r < p; r++ {
		stripeA := make([]float64, countsA[r])
		copy(stripeA, a[displsA[r]:displsA[r]+countsA[r]])
		stripeB := make([]float64, countsB[r])
		copy(stripeB, b[displsB[r]:displsB[r]+countsB[r]])
		participants[r] = elim.New(r, scheme, chain, cfg.BlockSize, reg, stripeA, stripeB)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for r := 0; r < p; r++ {
		pt := participants[r]
		g.Go(func() error { return pt.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// barrier precedes the gather only in the sense that every Run() above
	// has already returned by the time g.Wait() unblocks.
	stripesA := make([][]float64, p)
	stripesB := make([][]float64, p)
	for r := 0; r < p; r++ {
		stripesA[r] = participants[r].LocalA()
		stripesB[r] = participants[r].LocalB()
	}
	resA, resB = gather.Gather(scheme, stripesA, stripesB)

	nlog.Infof("elimination complete: %s", reg.Summary())
	return resA, resB, nil
}
