// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

import (
	"github.com/molecula/bufmgr/pagefile"
)

// FrameID is the type for frame id
type FrameID int

// PageID is the type for page id
type PageID = pagefile.PageID

// NoPage is reported for frames that hold no page.
const NoPage = pagefile.NoPage

const invalidFrame FrameID = -1

// frame is one slot of the pool. The slot itself lives as long as the pool;
// only its contents change.
type frame struct {
	id       FrameID
	pageID   PageID
	dirty    bool
	fixCount int
	data     []byte
}

func newFrame(id FrameID) *frame {
	return &frame{
		id:     id,
		pageID: NoPage,
		data:   make([]byte, pagefile.PageSize),
	}
}

func (f *frame) resident() bool {
	return f.pageID != NoPage
}

func (f *frame) pinned() bool {
	return f.fixCount > 0
}

// release drops one pin. Unpinning a frame nobody holds is a caller error.
func (f *frame) release() error {
	if f.fixCount == 0 {
		return newErrInvalidRelease(f.pageID)
	}
	f.fixCount--
	return nil
}

func (f *frame) markDirty() {
	f.dirty = true
}

func (f *frame) handle() *PageHandle {
	return &PageHandle{PageID: f.pageID, Data: f.data}
}

// lookup returns the frame holding page id, if any.
func (b *BufferPool) lookup(id PageID) (*frame, bool) {
	frameID, ok := b.pageTable[id]
	if !ok {
		return nil, false
	}
	return b.frames[frameID], true
}

// bind installs page id, whose bytes are in data, into f with a single pin.
// Any page f held before is dropped from the page table.
func (b *BufferPool) bind(f *frame, id PageID, data []byte) {
	if f.resident() {
		delete(b.pageTable, f.pageID)
	} else if len(b.freeList) > 0 && b.freeList[0] == f.id {
		b.freeList = b.freeList[1:]
	}
	copy(f.data, data)
	f.pageID = id
	f.dirty = false
	f.fixCount = 1
	b.pageTable[id] = f.id
}
