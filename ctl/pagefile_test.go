// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash"
	"github.com/molecula/bufmgr/errors"
	"github.com/molecula/bufmgr/logger"
	"github.com/molecula/bufmgr/pagefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPageFile(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.bin")
	cm := NewPageFileCreateCommand(&bytes.Buffer{}, logger.NewLogfLogger(t))
	cm.Path = path
	cm.Pages = pages
	require.NoError(t, cm.Run(context.Background()))
	return path
}

func TestPageFileCreateCommand_Run(t *testing.T) {
	buf := &bytes.Buffer{}
	cm := NewPageFileCreateCommand(buf, logger.NewLogfLogger(t))
	cm.Path = filepath.Join(t.TempDir(), "pages.bin")
	cm.Pages = 5
	require.NoError(t, cm.Run(context.Background()))
	assert.Equal(t, fmt.Sprintf("created %s: 5 pages\n", cm.Path), buf.String())

	f, err := pagefile.Open(cm.Path)
	require.NoError(t, err)
	assert.Equal(t, 5, f.NumPages())
	require.NoError(t, f.Close())

	// zero pages still leaves the one page every new file has
	path := createPageFile(t, 0)
	f, err = pagefile.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, 1, f.NumPages())
}

func TestPageFileInfoCommand_Run(t *testing.T) {
	path := createPageFile(t, 3)

	buf := &bytes.Buffer{}
	cm := NewPageFileInfoCommand(buf, logger.NewLogfLogger(t))
	cm.Path = path
	require.NoError(t, cm.Run(context.Background()))
	assert.Contains(t, buf.String(), "pages:     3\n")
	assert.Contains(t, buf.String(), "page size: 4.0 KiB\n")
	assert.Contains(t, buf.String(), "size:      12 KiB\n")

	cm.Path = filepath.Join(t.TempDir(), "missing")
	err := cm.Run(context.Background())
	assert.True(t, errors.Is(err, pagefile.ErrFileNotFound))
}

func TestPageFileDumpCommand_Run(t *testing.T) {
	path := createPageFile(t, 2)
	f, err := pagefile.Open(path)
	require.NoError(t, err)
	page := make([]byte, pagefile.PageSize)
	copy(page, "hello")
	require.NoError(t, f.WritePage(1, page))
	require.NoError(t, f.Close())

	buf := &bytes.Buffer{}
	cm := NewPageFileDumpCommand(buf, logger.NewLogfLogger(t))
	cm.Path = path
	require.NoError(t, cm.Run(context.Background()))

	out := buf.String()
	assert.Contains(t, out, fmt.Sprintf("## PAGE 0 xxhash=%016x\n", xxhash.Sum64(make([]byte, pagefile.PageSize))))
	assert.Contains(t, out, fmt.Sprintf("## PAGE 1 xxhash=%016x\n", xxhash.Sum64(page)))
	assert.Contains(t, out, "|hello")
	assert.Contains(t, out, "...")

	buf.Reset()
	cm.Pages = []pagefile.PageID{1}
	require.NoError(t, cm.Run(context.Background()))
	assert.Equal(t, 1, strings.Count(buf.String(), "## PAGE"))

	cm.Pages = []pagefile.PageID{2}
	err = cm.Run(context.Background())
	assert.True(t, errors.Is(err, pagefile.ErrReadNonExistingPage))
}

func TestCompressedHexDump(t *testing.T) {
	out := compressedHexDump(make([]byte, 64))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "...", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "00000030"))
}
