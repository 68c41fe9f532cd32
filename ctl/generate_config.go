// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"fmt"
	"io"

	"github.com/molecula/bufmgr/bufferpool/cfg"
	"github.com/molecula/bufmgr/logger"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// GenerateConfigCommand represents a command for printing a default config.
type GenerateConfigCommand struct {
	stdout  io.Writer
	logDest logger.Logger
}

// NewGenerateConfigCommand returns a new instance of GenerateConfigCommand.
func NewGenerateConfigCommand(stdout io.Writer, logdest logger.Logger) *GenerateConfigCommand {
	return &GenerateConfigCommand{
		stdout:  stdout,
		logDest: logdest,
	}
}

// Run prints out the default config.
func (cmd *GenerateConfigCommand) Run(_ context.Context) error {
	conf := cfg.NewDefaultConfig()
	ret, err := toml.Marshal(*conf)
	if err != nil {
		return errors.Wrap(err, "marshalling default config")
	}
	fmt.Fprintf(cmd.stdout, "%s\n", ret)
	return nil
}
