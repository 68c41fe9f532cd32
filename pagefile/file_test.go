// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package pagefile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/molecula/bufmgr/errors"
	"github.com/molecula/bufmgr/pagefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) *pagefile.File {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test_pagefile.bin")
	require.NoError(t, pagefile.Create(name))
	f, err := pagefile.Open(name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func pattern(b byte) []byte {
	return bytes.Repeat([]byte{b}, pagefile.PageSize)
}

func TestFile_CreateOpenClose(t *testing.T) {
	name := filepath.Join(t.TempDir(), "pf.bin")
	require.NoError(t, pagefile.Create(name))

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, int64(pagefile.PageSize), info.Size())

	f, err := pagefile.Open(name)
	require.NoError(t, err)
	assert.Equal(t, 1, f.NumPages())
	assert.Equal(t, name, f.Name())

	// a new file holds a single zero page.
	buf := make([]byte, pagefile.PageSize)
	require.NoError(t, f.ReadFirstPage(buf))
	assert.Equal(t, make([]byte, pagefile.PageSize), buf)

	require.NoError(t, f.Close())
	err = f.ReadFirstPage(buf)
	assert.True(t, errors.Is(err, pagefile.ErrFileHandleNotInit))

	require.NoError(t, pagefile.Destroy(name))
	_, err = pagefile.Open(name)
	assert.True(t, errors.Is(err, pagefile.ErrFileNotFound))
	assert.True(t, errors.Is(pagefile.Destroy(name), pagefile.ErrFileNotFound))
}

func TestFile_ReadWrite(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.EnsureCapacity(4))
	assert.Equal(t, 4, f.NumPages())

	for i := 0; i < 4; i++ {
		require.NoError(t, f.WritePage(pagefile.PageID(i), pattern(byte('a'+i))))
	}

	buf := make([]byte, pagefile.PageSize)
	for i := 3; i >= 0; i-- {
		require.NoError(t, f.ReadPage(pagefile.PageID(i), buf))
		assert.Equal(t, pattern(byte('a'+i)), buf)
		assert.Equal(t, pagefile.PageID(i), f.Position())
	}
}

func TestFile_Navigation(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.EnsureCapacity(3))
	for i := 0; i < 3; i++ {
		require.NoError(t, f.WritePage(pagefile.PageID(i), pattern(byte('0'+i))))
	}

	buf := make([]byte, pagefile.PageSize)
	require.NoError(t, f.ReadFirstPage(buf))
	assert.Equal(t, pattern('0'), buf)
	require.NoError(t, f.ReadNextPage(buf))
	assert.Equal(t, pattern('1'), buf)
	require.NoError(t, f.ReadCurrentPage(buf))
	assert.Equal(t, pattern('1'), buf)
	require.NoError(t, f.ReadLastPage(buf))
	assert.Equal(t, pattern('2'), buf)
	require.NoError(t, f.ReadPreviousPage(buf))
	assert.Equal(t, pattern('1'), buf)

	require.NoError(t, f.WriteCurrentPage(pattern('x')))
	require.NoError(t, f.ReadPage(1, buf))
	assert.Equal(t, pattern('x'), buf)

	require.NoError(t, f.ReadLastPage(buf))
	err := f.ReadNextPage(buf)
	assert.True(t, errors.Is(err, pagefile.ErrReadNonExistingPage))
	require.NoError(t, f.ReadFirstPage(buf))
	err = f.ReadPreviousPage(buf)
	assert.True(t, errors.Is(err, pagefile.ErrReadNonExistingPage))
}

func TestFile_AppendEmptyPage(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.WritePage(0, pattern('z')))
	require.NoError(t, f.AppendEmptyPage())
	assert.Equal(t, 2, f.NumPages())
	assert.Equal(t, pagefile.PageID(1), f.Position())

	buf := make([]byte, pagefile.PageSize)
	require.NoError(t, f.ReadCurrentPage(buf))
	assert.Equal(t, make([]byte, pagefile.PageSize), buf)
	require.NoError(t, f.ReadFirstPage(buf))
	assert.Equal(t, pattern('z'), buf)
}

func TestFile_EnsureCapacityNeverShrinks(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.EnsureCapacity(10))
	require.NoError(t, f.EnsureCapacity(2))
	assert.Equal(t, 10, f.NumPages())

	info, err := os.Stat(f.Name())
	require.NoError(t, err)
	assert.Equal(t, int64(10*pagefile.PageSize), info.Size())
}

func TestFile_Errors(t *testing.T) {
	f := newTestFile(t)
	buf := make([]byte, pagefile.PageSize)

	tests := []struct {
		name string
		err  error
		code errors.Code
	}{
		{"ReadNegative", f.ReadPage(-1, buf), pagefile.ErrReadNonExistingPage},
		{"ReadPastEnd", f.ReadPage(1, buf), pagefile.ErrReadNonExistingPage},
		{"ReadShortBuffer", f.ReadPage(0, buf[:10]), pagefile.ErrInvalidBuffer},
		{"WritePastEnd", f.WritePage(5, buf), pagefile.ErrWriteFailed},
		{"WriteShortBuffer", f.WritePage(0, buf[:10]), pagefile.ErrInvalidBuffer},
		{"ReadPastMaxOffset", f.ReadPage(pagefile.PageID(pagefile.MaxPageID+1), buf), pagefile.ErrCannotSeek},
		{"WritePastMaxOffset", f.WritePage(pagefile.PageID(pagefile.MaxPageID+1), buf), pagefile.ErrCannotSeek},
		{"GrowPastMaxOffset", f.EnsureCapacity(int(pagefile.MaxPageID + 2)), pagefile.ErrWriteFailed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.True(t, errors.Is(test.err, test.code), "got %v", test.err)
		})
	}
}

// Page numbers whose byte offset overflows int64 must never wrap around onto
// the start of the file.
func TestFile_HugePageNumbers(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.WritePage(0, pattern('a')))

	buf := make([]byte, pagefile.PageSize)
	for _, id := range []pagefile.PageID{1 << 52, 1<<52 + 1, pagefile.PageID(pagefile.MaxPageID + 1)} {
		err := f.EnsureCapacity(int(id) + 1)
		assert.True(t, errors.Is(err, pagefile.ErrWriteFailed), "id %d: got %v", id, err)
		assert.Equal(t, 1, f.NumPages())

		err = f.WritePage(id, pattern('b'))
		assert.True(t, errors.Is(err, pagefile.ErrCannotSeek), "id %d: got %v", id, err)
		err = f.ReadPage(id, buf)
		assert.True(t, errors.Is(err, pagefile.ErrCannotSeek), "id %d: got %v", id, err)
	}

	require.NoError(t, f.ReadPage(0, buf))
	assert.Equal(t, pattern('a'), buf)
	info, err := os.Stat(f.Name())
	require.NoError(t, err)
	assert.Equal(t, int64(pagefile.PageSize), info.Size())
}
