// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"io"

	"github.com/molecula/bufmgr/bufferpool/cfg"
	"github.com/molecula/bufmgr/ctl"
	"github.com/spf13/cobra"
)

func newReplayCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	conf := cfg.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Run a script of buffer pool requests.",
		Long: `
Opens a buffer pool on --page-file and runs each request of the script
against it (pin, unpin, dirty, write, read, force, flush, show or
shutdown, one per line). A script of "-" is read from standard input.
The pool is shut down at the end of the script.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := ctl.NewReplayCommand(stdin, stdout, newLogger(stderr, conf.Verbose))
			c.Config = conf
			c.Script = args[0]
			return c.Run(context.Background())
		},
	}
	conf.DefineFlags(cmd.Flags())
	return cmd
}
