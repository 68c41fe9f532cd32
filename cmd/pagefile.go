// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"io"
	"strconv"

	"github.com/molecula/bufmgr/ctl"
	"github.com/molecula/bufmgr/pagefile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPageFileCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagefile",
		Short: "Create and inspect page files.",
		Long: `
Provides a set of commands for creating and inspecting page files.
`,
	}
	cmd.AddCommand(newPageFileCreateCommand(stdin, stdout, stderr))
	cmd.AddCommand(newPageFileInfoCommand(stdin, stdout, stderr))
	cmd.AddCommand(newPageFileDumpCommand(stdin, stdout, stderr))
	return cmd
}

func newPageFileCreateCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := ctl.NewPageFileCreateCommand(stdout, newLogger(stderr, false))
	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create a page file.",
		Long: `
Creates (or truncates) a page file holding zero-filled pages.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Path = args[0]
			return c.Run(context.Background())
		},
	}
	cmd.Flags().IntVarP(&c.Pages, "pages", "n", 1, "Number of pages in the new file.")
	return cmd
}

func newPageFileInfoCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := ctl.NewPageFileInfoCommand(stdout, newLogger(stderr, false))
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the size of a page file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Path = args[0]
			return c.Run(context.Background())
		},
	}
}

func newPageFileDumpCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := ctl.NewPageFileDumpCommand(stdout, newLogger(stderr, false))
	return &cobra.Command{
		Use:   "dump <file> [page...]",
		Short: "Print raw page data.",
		Long: `
Dumps the hex data and checksum of the given pages, or of every page.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Path = args[0]
			c.Pages = c.Pages[:0]
			for _, arg := range args[1:] {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return errors.Errorf("invalid page number '%s'", arg)
				}
				c.Pages = append(c.Pages, pagefile.PageID(id))
			}
			return c.Run(context.Background())
		},
	}
}
