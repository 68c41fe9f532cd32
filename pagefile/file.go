// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package pagefile

import (
	"fmt"
	"io"
	"os"

	"github.com/molecula/bufmgr/errors"
)

// File is an open page file on disk. It is not safe for concurrent use.
type File struct {
	name string
	fd   *os.File

	// number of whole pages in the file
	numPages int
	// page touched by the last read or write
	curPage PageID
}

// Create creates (or truncates) the page file name so that it holds a single
// zero-filled page.
func Create(name string) error {
	fd, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return newErrFileNotFound(name, err)
	}
	defer fd.Close()

	if _, err := fd.WriteAt(make([]byte, PageSize), 0); err != nil {
		return newErrWriteFailed(0, err)
	}
	return nil
}

// Open opens an existing page file.
func Open(name string) (*File, error) {
	fd, err := os.OpenFile(name, os.O_RDWR, 0o600)
	if err != nil {
		return nil, newErrFileNotFound(name, err)
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, newErrFileNotFound(name, err)
	}
	return &File{
		name:     name,
		fd:       fd,
		numPages: int(info.Size() / PageSize),
	}, nil
}

// Destroy removes the page file name from disk.
func Destroy(name string) error {
	if err := os.Remove(name); err != nil {
		return newErrFileNotFound(name, err)
	}
	return nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string { return f.name }

// NumPages returns the number of pages in the file.
func (f *File) NumPages() int { return f.numPages }

// Position returns the page touched by the last read or write.
func (f *File) Position() PageID { return f.curPage }

// Close closes the underlying file. Further calls fail with
// ErrFileHandleNotInit.
func (f *File) Close() error {
	if f.fd == nil {
		return newErrFileHandleNotInit(f.name)
	}
	err := f.fd.Close()
	f.fd = nil
	if err != nil {
		return errors.Wrapf(err, "closing page file '%s'", f.name)
	}
	return nil
}

// ReadPage reads page id into buf, which must be exactly PageSize bytes.
func (f *File) ReadPage(id PageID, buf []byte) error {
	if f.fd == nil {
		return newErrFileHandleNotInit(f.name)
	}
	if len(buf) != PageSize {
		return newErrInvalidBuffer(len(buf))
	}
	if !addressable(id) {
		return newErrCannotSeek(id, errOffsetRange)
	}
	if id < 0 || int(id) >= f.numPages {
		return newErrReadNonExistingPage(id, f.numPages)
	}
	if _, err := f.fd.Seek(offset(id), io.SeekStart); err != nil {
		return newErrCannotSeek(id, err)
	}
	if _, err := io.ReadFull(f.fd, buf); err != nil {
		return newErrReadFailed(id, err)
	}
	f.curPage = id
	return nil
}

func (f *File) ReadFirstPage(buf []byte) error {
	return f.ReadPage(0, buf)
}

func (f *File) ReadPreviousPage(buf []byte) error {
	return f.ReadPage(f.curPage-1, buf)
}

func (f *File) ReadCurrentPage(buf []byte) error {
	return f.ReadPage(f.curPage, buf)
}

func (f *File) ReadNextPage(buf []byte) error {
	return f.ReadPage(f.curPage+1, buf)
}

func (f *File) ReadLastPage(buf []byte) error {
	return f.ReadPage(PageID(f.numPages-1), buf)
}

// WritePage writes buf to page id. The page must already exist; use
// EnsureCapacity or AppendEmptyPage to grow the file.
func (f *File) WritePage(id PageID, buf []byte) error {
	if f.fd == nil {
		return newErrFileHandleNotInit(f.name)
	}
	if len(buf) != PageSize {
		return newErrInvalidBuffer(len(buf))
	}
	if !addressable(id) {
		return newErrCannotSeek(id, errOffsetRange)
	}
	if id < 0 || int(id) >= f.numPages {
		return newErrWriteFailed(id, fmt.Errorf("page out of range (file has %d pages)", f.numPages))
	}
	if _, err := f.fd.Seek(offset(id), io.SeekStart); err != nil {
		return newErrCannotSeek(id, err)
	}
	n, err := f.fd.Write(buf)
	if err != nil {
		return newErrWriteFailed(id, err)
	} else if n != PageSize {
		return newErrWriteFailed(id, io.ErrShortWrite)
	}
	f.curPage = id
	return nil
}

func (f *File) WriteCurrentPage(buf []byte) error {
	return f.WritePage(f.curPage, buf)
}

// AppendEmptyPage adds one zero-filled page at the end of the file.
func (f *File) AppendEmptyPage() error {
	if err := f.EnsureCapacity(f.numPages + 1); err != nil {
		return err
	}
	f.curPage = PageID(f.numPages - 1)
	return nil
}

// EnsureCapacity grows the file with zero-filled pages until it holds at
// least numPages pages. It never shrinks the file.
func (f *File) EnsureCapacity(numPages int) error {
	if f.fd == nil {
		return newErrFileHandleNotInit(f.name)
	}
	if numPages <= f.numPages {
		return nil
	}
	if int64(numPages) > MaxPageID+1 {
		return newErrWriteFailed(PageID(numPages-1), errOffsetRange)
	}
	// writing the last byte extends the file with zeros.
	size := int64(numPages) * PageSize
	if _, err := f.fd.WriteAt([]byte{0}, size-1); err != nil {
		return newErrWriteFailed(PageID(numPages-1), err)
	}
	f.numPages = numPages
	return nil
}

// Sync commits the file's contents to stable storage.
func (f *File) Sync() error {
	if f.fd == nil {
		return newErrFileHandleNotInit(f.name)
	}
	if err := f.fd.Sync(); err != nil {
		return newErrWriteFailed(NoPage, err)
	}
	return nil
}
