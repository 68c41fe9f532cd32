// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package pagefile implements a store of fixed-size pages kept in a single
// file. Page n occupies bytes [n*PageSize, (n+1)*PageSize) of the file; there
// is no header and no free list.
package pagefile

import (
	"fmt"
	"math"

	"github.com/molecula/bufmgr/errors"
)

// PageSize is the size in bytes of every page moved through a store.
const PageSize = 4096

// PageID is the number of a page within a page file.
type PageID int

// NoPage marks the absence of a page.
const NoPage PageID = -1

// MaxPageID is the highest page whose bytes can be addressed by a file
// offset.
const MaxPageID int64 = math.MaxInt64/PageSize - 1

var errOffsetRange = fmt.Errorf("page lies past the largest file offset (max page %d)", MaxPageID)

const (
	ErrFileNotFound        errors.Code = "ErrFileNotFound"
	ErrFileHandleNotInit   errors.Code = "ErrFileHandleNotInit"
	ErrReadNonExistingPage errors.Code = "ErrReadNonExistingPage"
	ErrCannotSeek          errors.Code = "ErrCannotSeek"
	ErrReadFailed          errors.Code = "ErrReadFailed"
	ErrWriteFailed         errors.Code = "ErrWriteFailed"
	ErrInvalidBuffer       errors.Code = "ErrInvalidBuffer"
)

func newErrFileNotFound(name string, err error) error {
	return errors.New(ErrFileNotFound, fmt.Sprintf("page file '%s' not found: %v", name, err))
}

func newErrFileHandleNotInit(name string) error {
	return errors.New(ErrFileHandleNotInit, fmt.Sprintf("page file '%s' is not open", name))
}

func newErrReadNonExistingPage(id PageID, numPages int) error {
	return errors.New(ErrReadNonExistingPage, fmt.Sprintf("page %d does not exist (file has %d pages)", id, numPages))
}

func newErrCannotSeek(id PageID, err error) error {
	return errors.New(ErrCannotSeek, fmt.Sprintf("seeking to page %d: %v", id, err))
}

func newErrReadFailed(id PageID, err error) error {
	return errors.New(ErrReadFailed, fmt.Sprintf("reading page %d: %v", id, err))
}

func newErrWriteFailed(id PageID, err error) error {
	return errors.New(ErrWriteFailed, fmt.Sprintf("writing page %d: %v", id, err))
}

func newErrInvalidBuffer(n int) error {
	return errors.New(ErrInvalidBuffer, fmt.Sprintf("buffer is %d bytes, pages are %d bytes", n, PageSize))
}

// addressable reports whether page id lies within MaxPageID.
func addressable(id PageID) bool {
	return int64(id) <= MaxPageID
}

// offset returns the byte offset of page id within a page file. id must be
// addressable.
func offset(id PageID) int64 {
	return int64(id) * PageSize
}
