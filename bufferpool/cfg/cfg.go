// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cfg

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	DefaultNumFrames = 3
	DefaultStrategy  = "fifo"
	// DefaultLogMaxSize is the log file size in megabytes that triggers
	// rotation.
	DefaultLogMaxSize = 100
)

// Config defines externally configurable buffer pool options.
// The separate package avoids circular import.
type Config struct {
	// Page file the pool caches. Must exist.
	PageFile string `toml:"page-file"`

	// Number of frames; fixed for the life of the pool.
	NumFrames int `toml:"frames"`

	// Replacement strategy: fifo, lru or clock.
	Strategy string `toml:"strategy"`

	// Log to this file instead of stderr when set.
	LogPath    string `toml:"log-path"`
	LogMaxSize int    `toml:"log-max-size"`
	Verbose    bool   `toml:"verbose"`
}

func NewDefaultConfig() *Config {
	return &Config{
		NumFrames:  DefaultNumFrames,
		Strategy:   DefaultStrategy,
		LogMaxSize: DefaultLogMaxSize,
	}
}

func (cfg *Config) DefineFlags(flags *pflag.FlagSet) {
	default0 := NewDefaultConfig()
	flags.StringVar(&cfg.PageFile, "page-file", default0.PageFile, "Page file cached by the buffer pool.")
	flags.IntVar(&cfg.NumFrames, "frames", default0.NumFrames, "Number of page frames in the buffer pool.")
	flags.StringVar(&cfg.Strategy, "strategy", default0.Strategy, "Replacement strategy: fifo, lru or clock.")
	flags.StringVar(&cfg.LogPath, "log-path", default0.LogPath, "Log file path; logs go to stderr when empty.")
	flags.IntVar(&cfg.LogMaxSize, "log-max-size", default0.LogMaxSize, "Size in megabytes at which the log file is rotated.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", default0.Verbose, "Enable debug logging.")
}

// Validate checks the options that do not depend on the buffer pool package.
// Strategy names are checked when the pool is created.
func (cfg *Config) Validate() error {
	if cfg.PageFile == "" {
		return fmt.Errorf("page file is required")
	}
	if cfg.NumFrames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.NumFrames)
	}
	if cfg.LogPath != "" && cfg.LogMaxSize <= 0 {
		return fmt.Errorf("log-max-size must be positive, got %d", cfg.LogMaxSize)
	}
	return nil
}
