// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package pagefile

import (
	"fmt"
	"os"

	"github.com/molecula/bufmgr/errors"
	uuid "github.com/satori/go.uuid"
)

// spillChunkPages is how many pages the spill file grows by at a time.
const spillChunkPages = 512

// MemFile is a page store held in memory that spills to a temporary file once
// it grows beyond a threshold number of pages. Like a freshly created File it
// starts out with one zero page.
type MemFile struct {
	name string

	// tracks the number of pages
	numPages int

	// pages allocated in the spill file
	onDiskPages int

	// tracks the number of pages we can hold before spilling
	thresholdPages int
	fd             *os.File
	closed         bool

	// the data buffer, unused once spilled
	data []byte
}

// NewMemFile returns an in-memory page store. A thresholdPages of zero or
// less never spills.
func NewMemFile(name string, thresholdPages int) *MemFile {
	return &MemFile{
		name:           name,
		numPages:       1,
		thresholdPages: thresholdPages,
		data:           make([]byte, PageSize),
	}
}

func (m *MemFile) Name() string { return m.name }

func (m *MemFile) NumPages() int { return m.numPages }

// Spilled reports whether the pages now live in a temporary file.
func (m *MemFile) Spilled() bool { return m.fd != nil }

func (m *MemFile) ReadPage(id PageID, buf []byte) error {
	if m.closed {
		return newErrFileHandleNotInit(m.name)
	}
	if len(buf) != PageSize {
		return newErrInvalidBuffer(len(buf))
	}
	if !addressable(id) {
		return newErrCannotSeek(id, errOffsetRange)
	}
	if id < 0 || int(id) >= m.numPages {
		return newErrReadNonExistingPage(id, m.numPages)
	}
	if m.fd == nil {
		copy(buf, m.data[offset(id):offset(id)+PageSize])
		return nil
	}
	if _, err := m.fd.ReadAt(buf, offset(id)); err != nil {
		return newErrReadFailed(id, err)
	}
	return nil
}

func (m *MemFile) WritePage(id PageID, buf []byte) error {
	if m.closed {
		return newErrFileHandleNotInit(m.name)
	}
	if len(buf) != PageSize {
		return newErrInvalidBuffer(len(buf))
	}
	if !addressable(id) {
		return newErrCannotSeek(id, errOffsetRange)
	}
	if id < 0 || int(id) >= m.numPages {
		return newErrWriteFailed(id, fmt.Errorf("page out of range (store has %d pages)", m.numPages))
	}
	if m.fd == nil {
		copy(m.data[offset(id):], buf)
		return nil
	}
	if _, err := m.fd.WriteAt(buf, offset(id)); err != nil {
		return newErrWriteFailed(id, err)
	}
	return nil
}

// EnsureCapacity grows the store with zero pages until it holds at least
// numPages pages.
func (m *MemFile) EnsureCapacity(numPages int) error {
	if m.closed {
		return newErrFileHandleNotInit(m.name)
	}
	if numPages <= m.numPages {
		return nil
	}
	if int64(numPages) > MaxPageID+1 {
		return newErrWriteFailed(PageID(numPages-1), errOffsetRange)
	}

	if m.fd == nil {
		if m.thresholdPages <= 0 || numPages <= m.thresholdPages {
			// we have not spilled (yet), so make storage bigger
			m.data = append(m.data, make([]byte, (numPages-m.numPages)*PageSize)...)
			m.numPages = numPages
			return nil
		}
		// spill what we have and let the file hold the new pages
		if err := m.spill(); err != nil {
			return err
		}
	}

	if numPages > m.onDiskPages {
		// grow the file by whole chunks
		for m.onDiskPages < numPages {
			m.onDiskPages += spillChunkPages
		}
		if _, err := m.fd.WriteAt([]byte{0}, int64(m.onDiskPages)*PageSize-1); err != nil {
			return newErrWriteFailed(PageID(numPages-1), err)
		}
	}
	m.numPages = numPages
	return nil
}

// spill moves the in-memory pages into a uniquely named temporary file.
func (m *MemFile) spill() error {
	fileUUID, err := uuid.NewV4()
	if err != nil {
		return errors.Wrap(err, "generating spill file name")
	}
	fd, err := os.CreateTemp("", fmt.Sprintf("bufmgr-%s", fileUUID.String()))
	if err != nil {
		return newErrWriteFailed(NoPage, err)
	}
	if _, err := fd.WriteAt(m.data, 0); err != nil {
		fd.Close()
		os.Remove(fd.Name())
		return newErrWriteFailed(NoPage, err)
	}
	m.fd = fd
	m.onDiskPages = m.numPages
	m.data = nil
	return nil
}

// Close releases the store, removing the spill file if there is one.
func (m *MemFile) Close() error {
	if m.closed {
		return newErrFileHandleNotInit(m.name)
	}
	m.closed = true
	m.data = nil
	if m.fd == nil {
		return nil
	}
	name := m.fd.Name()
	err := m.fd.Close()
	m.fd = nil
	if rerr := os.Remove(name); err == nil && rerr != nil {
		err = rerr
	}
	return errors.Wrap(err, "closing spill file")
}
