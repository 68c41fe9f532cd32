// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/dustin/go-humanize"
	"github.com/molecula/bufmgr/logger"
	"github.com/molecula/bufmgr/pagefile"
	"github.com/pkg/errors"
)

// PageFileCreateCommand creates a new page file.
type PageFileCreateCommand struct {
	// Path of the file to create.
	Path string

	// Number of zero pages in the new file. A new file always has at
	// least one.
	Pages int

	stdout  io.Writer
	logDest logger.Logger
}

func NewPageFileCreateCommand(stdout io.Writer, logdest logger.Logger) *PageFileCreateCommand {
	return &PageFileCreateCommand{
		Pages:   1,
		stdout:  stdout,
		logDest: logdest,
	}
}

func (cmd *PageFileCreateCommand) Run(ctx context.Context) error {
	if err := pagefile.Create(cmd.Path); err != nil {
		return err
	}
	f, err := pagefile.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.EnsureCapacity(cmd.Pages); err != nil {
		return errors.Wrapf(err, "growing '%s' to %d pages", cmd.Path, cmd.Pages)
	}
	cmd.logDest.Debugf("created page file '%s'", cmd.Path)
	fmt.Fprintf(cmd.stdout, "created %s: %d pages\n", cmd.Path, f.NumPages())
	return nil
}

// PageFileInfoCommand prints the size of a page file.
type PageFileInfoCommand struct {
	Path string

	stdout  io.Writer
	logDest logger.Logger
}

func NewPageFileInfoCommand(stdout io.Writer, logdest logger.Logger) *PageFileInfoCommand {
	return &PageFileInfoCommand{
		stdout:  stdout,
		logDest: logdest,
	}
}

func (cmd *PageFileInfoCommand) Run(ctx context.Context) error {
	f, err := pagefile.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	n := f.NumPages()
	fmt.Fprintf(cmd.stdout, "file:      %s\n", cmd.Path)
	fmt.Fprintf(cmd.stdout, "pages:     %d\n", n)
	fmt.Fprintf(cmd.stdout, "page size: %s\n", humanize.IBytes(pagefile.PageSize))
	fmt.Fprintf(cmd.stdout, "size:      %s\n", humanize.IBytes(uint64(n)*pagefile.PageSize))
	return nil
}

// PageFileDumpCommand prints the raw contents of pages.
type PageFileDumpCommand struct {
	Path string

	// Page numbers to print. All pages when empty.
	Pages []pagefile.PageID

	stdout  io.Writer
	logDest logger.Logger
}

func NewPageFileDumpCommand(stdout io.Writer, logdest logger.Logger) *PageFileDumpCommand {
	return &PageFileDumpCommand{
		stdout:  stdout,
		logDest: logdest,
	}
}

func (cmd *PageFileDumpCommand) Run(ctx context.Context) error {
	f, err := pagefile.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	ids := cmd.Pages
	if len(ids) == 0 {
		for i := 0; i < f.NumPages(); i++ {
			ids = append(ids, pagefile.PageID(i))
		}
	}

	buf := make([]byte, pagefile.PageSize)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.ReadPage(id, buf); err != nil {
			return err
		}
		fmt.Fprintf(cmd.stdout, "## PAGE %d xxhash=%016x\n", id, xxhash.Sum64(buf))
		fmt.Fprintln(cmd.stdout, compressedHexDump(buf))
		fmt.Fprintln(cmd.stdout, "")
	}
	return nil
}

func compressedHexDump(b []byte) string {
	const prefixN = len("00000000")

	var output []string
	var prev string
	var ellipsis bool

	lines := strings.Split(strings.TrimSpace(hex.Dump(b)), "\n")
	for i, line := range lines {
		// Add line to output if it is not repeating or the last line.
		if i == 0 || i == len(lines)-1 || trimPrefixN(line, prefixN) != trimPrefixN(prev, prefixN) {
			output = append(output, line)
			prev, ellipsis = line, false
			continue
		}

		// Add an ellipsis for the first duplicate line.
		if !ellipsis {
			output = append(output, "...")
			ellipsis = true
		}
	}

	return strings.Join(output, "\n")
}

// trimPrefixN trims n bytes from the beginning of a string.
func trimPrefixN(s string, n int) string {
	if len(s) < n {
		return ""
	}
	return s[n:]
}
