// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/molecula/bufmgr/bufferpool"
	"github.com/molecula/bufmgr/bufferpool/cfg"
	"github.com/molecula/bufmgr/logger"
	"github.com/pkg/errors"
)

// ReplayCommand runs a script of buffer pool requests against a page file.
//
// Each line of the script is one request:
//
//	pin N          pin page N
//	unpin N        drop one pin on page N
//	dirty N        mark page N dirty
//	write N TEXT   copy TEXT to the start of pinned page N and mark it dirty
//	read N         print the text at the start of pinned page N
//	force N        write page N to the page file
//	flush          write every unpinned dirty page
//	show           print the frame table
//	shutdown       shut the pool down
//
// Blank lines and lines starting with # are ignored. The pool is shut down
// at the end of the script if the script did not do so itself. When the
// script fails, every page it left pinned is released and the pool is shut
// down so modified pages still reach the page file.
type ReplayCommand struct {
	Config *cfg.Config

	// Path of the script; "-" reads standard input.
	Script string

	stdin   io.Reader
	stdout  io.Writer
	logDest logger.Logger

	pool    *bufferpool.BufferPool
	handles map[bufferpool.PageID]*bufferpool.PageHandle
}

func NewReplayCommand(stdin io.Reader, stdout io.Writer, logdest logger.Logger) *ReplayCommand {
	return &ReplayCommand{
		Config:  cfg.NewDefaultConfig(),
		stdin:   stdin,
		stdout:  stdout,
		logDest: logdest,
	}
}

func (cmd *ReplayCommand) Run(ctx context.Context) (err error) {
	var script io.Reader = cmd.stdin
	if cmd.Script != "-" {
		f, err := os.Open(cmd.Script)
		if err != nil {
			return errors.Wrap(err, "opening script")
		}
		defer f.Close()
		script = f
	}

	log := cmd.logDest
	if cmd.Config.LogPath != "" {
		fl := logger.NewFileLogger(cmd.Config.LogPath, cmd.Config.LogMaxSize, cmd.Config.Verbose)
		defer fl.Close()
		log = fl
	}

	cmd.pool, err = bufferpool.NewFromConfig(cmd.Config, bufferpool.OptPoolLogger(log.WithPrefix("pool: ")))
	if err != nil {
		return err
	}
	cmd.handles = make(map[bufferpool.PageID]*bufferpool.PageHandle)
	defer func() {
		if err != nil && !cmd.pool.Closed() {
			cmd.release(log)
		}
	}()

	scanner := bufio.NewScanner(script)
	for n := 1; scanner.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := cmd.exec(line); err != nil {
			return errors.Wrapf(err, "line %d: %s", n, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading script")
	}

	if !cmd.pool.Closed() {
		return cmd.shutdown()
	}
	return nil
}

func (cmd *ReplayCommand) exec(line string) error {
	fields := strings.SplitN(line, " ", 3)
	op := strings.ToLower(fields[0])

	switch op {
	case "flush":
		return cmd.pool.FlushPool()
	case "show":
		cmd.pool.Dump(cmd.stdout)
		return nil
	case "shutdown":
		return cmd.shutdown()
	}

	if len(fields) < 2 {
		return errors.Errorf("%s needs a page number", op)
	}
	id, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return errors.Wrap(err, "parsing page number")
	}
	pageID := bufferpool.PageID(id)

	switch op {
	case "pin":
		h, err := cmd.pool.PinPage(pageID)
		if err != nil {
			return err
		}
		cmd.handles[pageID] = h
		return nil
	case "unpin":
		return cmd.pool.UnpinPage(cmd.handle(pageID))
	case "dirty":
		return cmd.pool.MarkDirty(cmd.handle(pageID))
	case "force":
		return cmd.pool.ForcePage(cmd.handle(pageID))
	case "write":
		if len(fields) < 3 {
			return errors.New("write needs text")
		}
		h, err := cmd.pinned(pageID)
		if err != nil {
			return err
		}
		copy(h.Data, fields[2])
		return cmd.pool.MarkDirty(h)
	case "read":
		h, err := cmd.pinned(pageID)
		if err != nil {
			return err
		}
		text := h.Data
		if i := bytes.IndexByte(text, 0); i >= 0 {
			text = text[:i]
		}
		fmt.Fprintf(cmd.stdout, "%d: %s\n", pageID, text)
		return nil
	}
	return errors.Errorf("unknown request '%s'", op)
}

// handle returns the last handle pinned for id, or a bare one the pool
// can reject.
func (cmd *ReplayCommand) handle(id bufferpool.PageID) *bufferpool.PageHandle {
	if h, ok := cmd.handles[id]; ok {
		return h
	}
	return &bufferpool.PageHandle{PageID: id}
}

// pinned returns a handle whose data is safe to use: the page must be
// resident and pinned.
func (cmd *ReplayCommand) pinned(id bufferpool.PageID) (*bufferpool.PageHandle, error) {
	h, ok := cmd.handles[id]
	if !ok {
		return nil, errors.Errorf("page %d was never pinned", id)
	}
	contents := cmd.pool.FrameContents()
	fixCounts := cmd.pool.FixCounts()
	for i, pid := range contents {
		if pid == id && fixCounts[i] > 0 {
			return h, nil
		}
	}
	return nil, errors.Errorf("page %d is not pinned", id)
}

func (cmd *ReplayCommand) shutdown() error {
	if err := cmd.pool.Shutdown(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.stdout, "reads: %d writes: %d\n", cmd.pool.NumReadIO(), cmd.pool.NumWriteIO())
	return nil
}

// release drops every pin left on the pool and shuts it down. Failures are
// logged; the caller is already returning an error.
func (cmd *ReplayCommand) release(log logger.Logger) {
	fixCounts := cmd.pool.FixCounts()
	for i, id := range cmd.pool.FrameContents() {
		for n := 0; n < fixCounts[i]; n++ {
			if err := cmd.pool.UnpinPage(&bufferpool.PageHandle{PageID: id}); err != nil {
				log.Errorf("releasing page %d: %v", id, err)
			}
		}
	}
	if err := cmd.pool.Shutdown(); err != nil {
		log.Errorf("shutting down after failed script: %v", err)
		return
	}
	log.Infof("shut down after failed script: %d reads, %d writes", cmd.pool.NumReadIO(), cmd.pool.NumWriteIO())
}
