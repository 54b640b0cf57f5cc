// Package config resolves run parameters the same layered way aistore's
// cmn.Config does: compiled-in defaults, overridden by an optional JSON
// manifest, overridden in turn by environment variables.
/*
 * Copyright (c) 2024, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/jramos/dgauss/cmn/nlog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultBlockSize is B when neither the manifest nor BLOCK_SIZE override it.
	DefaultBlockSize = 20
	// DefaultParticipants is used when -participants is not given on the CLI.
	DefaultParticipants = 4
)

// ValidParticipantCounts enumerates the power-of-two cluster sizes the
// partitioner and pipeline are validated against. The partitioner itself is
// correct for any positive P; the restriction on supported cluster sizes is
// preserved deliberately, since downstream consumers may rely on it.
var ValidParticipantCounts = map[int]bool{2: true, 4: true, 8: true, 16: true, 32: true}

// Manifest is the optional cluster.json run manifest.
type Manifest struct {
	Participants int `json:"participants,omitempty"`
	BlockSize    int `json:"block_size,omitempty"`
}

// Config is the fully resolved set of run parameters.
type Config struct {
	N            int // problem dimension, from the CLI positional argument
	Participants int // P
	BlockSize    int // B
	Debug        bool
	WorkDir      string // directory holding matrix.in/vector.in/result.out
}

// Load resolves a Config from defaults, an optional manifest file at
// manifestPath (ignored if it does not exist), and environment variables.
// CLI flags (participants, blockSize), when explicitly set by the caller
// (positive), take the highest priority: cmd/dgauss passes them in and Load
// applies them last.
func Load(manifestPath string, participants, blockSize int, workDir string) (*Config, error) {
	cfg := &Config{
		Participants: DefaultParticipants,
		BlockSize:    DefaultBlockSize,
		WorkDir:      workDir,
	}

	if manifestPath != "" {
		if b, err := os.ReadFile(manifestPath); err == nil {
			var m Manifest
			if err := json.Unmarshal(b, &m); err != nil {
				return nil, errors.Wrapf(err, "config: parse manifest %q", manifestPath)
			}
			if m.Participants > 0 {
				cfg.Participants = m.Participants
			}
			if m.BlockSize > 0 {
				cfg.BlockSize = m.BlockSize
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config: read manifest %q", manifestPath)
		}
	}

	if s := os.Getenv("BLOCK_SIZE"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return nil, errors.Errorf("config: invalid BLOCK_SIZE %q", s)
		}
		cfg.BlockSize = v
	}

	if participants > 0 {
		cfg.Participants = participants
	}
	if blockSize > 0 {
		cfg.BlockSize = blockSize
	}

	cfg.Debug = os.Getenv("DEBUG") == "1"
	nlog.SetVerbose(cfg.Debug)

	return cfg, nil
}

// Validate checks the configuration invariants the orchestrator requires
// before startup: P must be a supported power of two, B must be positive,
// n must be positive.
func (c *Config) Validate() error {
	if !ValidParticipantCounts[c.Participants] {
		return errors.Errorf("unsupported participant count %d (must be one of 2,4,8,16,32)", c.Participants)
	}
	if c.BlockSize <= 0 {
		return errors.Errorf("invalid block size %d (must be positive)", c.BlockSize)
	}
	if c.N <= 0 {
		return errors.Errorf("invalid problem dimension %d (must be positive)", c.N)
	}
	return nil
}
