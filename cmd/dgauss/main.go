// Command dgauss solves a dense linear system A*x = b by parallel
// (goroutine-pipelined) Gaussian elimination followed by serial
// back-substitution.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	"github.com/jramos/dgauss/cmn/nlog"
	"github.com/jramos/dgauss/config"
	"github.com/jramos/dgauss/orchestrator"
	"github.com/jramos/dgauss/problem"
)

func main() {
	app := cli.NewApp()
	app.Name = "dgauss"
	app.Usage = "solve A*x = b by pipelined distributed Gaussian elimination"
	app.UsageText = "dgauss [options] <n>"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "participants, p", Usage: "participant count (2,4,8,16,32)", Value: 0},
		cli.IntFlag{Name: "block-size, b", Usage: "pivot block size B (env BLOCK_SIZE)", Value: 0},
		cli.StringFlag{Name: "manifest, m", Usage: "optional cluster.json run manifest"},
		cli.StringFlag{Name: "workdir, w", Usage: "directory holding matrix.in/vector.in/result.out", Value: "."},
		cli.BoolFlag{Name: "gen", Usage: "generate a synthetic diagonally dominant matrix.in/vector.in instead of solving"},
		cli.Int64Flag{Name: "seed", Usage: "RNG seed for --gen", Value: 1},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		nlog.Errorln(err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: dgauss [options] <n>", 2)
	}
	n, err := strconv.Atoi(c.Args().Get(0))
	if err != nil || n <= 0 {
		return cli.NewExitError(fmt.Sprintf("invalid n %q: must be a positive integer", c.Args().Get(0)), 2)
	}

	workDir := c.String("workdir")

	if c.Bool("gen") {
		if err := problem.Generate(workDir, problem.GenerateOpts{N: n, Seed: c.Int64("seed")}); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}

	cfg, err := config.Load(c.String("manifest"), c.Int("participants"), c.Int("block-size"), workDir)
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	cfg.N = n

	if err := cfg.Validate(); err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	if _, err := orchestrator.Run(cfg); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
