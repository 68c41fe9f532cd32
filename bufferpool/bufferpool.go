// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/molecula/bufmgr/bufferpool/cfg"
	"github.com/molecula/bufmgr/errors"
	"github.com/molecula/bufmgr/logger"
	"github.com/molecula/bufmgr/pagefile"
)

// PageStore is the page file a pool caches.
type PageStore interface {
	ReadPage(id PageID, buf []byte) error
	WritePage(id PageID, buf []byte) error
	EnsureCapacity(numPages int) error
	NumPages() int
	Close() error
}

// PageHandle is returned by PinPage. Data is the frame's own buffer; it is
// valid until the page is unpinned and then evicted.
type PageHandle struct {
	PageID PageID
	Data   []byte
}

func openPageFile(name string) (PageStore, error) {
	f, err := pagefile.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// BufferPool caches pages of one page file in a fixed number of frames.
//
// A BufferPool is not safe for concurrent use.
type BufferPool struct {
	pageFile     string
	store        PageStore
	strategy     Strategy
	strategyData interface{}

	// frames are indexed by FrameID and never reallocated
	frames []*frame
	// frames that have never held a page, lowest id first
	freeList []FrameID
	// page id -> offset into frames
	pageTable map[PageID]FrameID
	replacer  Replacer

	// new pages are read here and only copied into a frame once every I/O
	// of the pin has succeeded
	scratch []byte

	numReadIO  int
	numWriteIO int

	logger logger.Logger
	open   func(name string) (PageStore, error)
	closed bool
}

type PoolOption func(b *BufferPool) error

func OptPoolLogger(l logger.Logger) PoolOption {
	return func(b *BufferPool) error {
		b.logger = l
		return nil
	}
}

// OptPoolStore replaces pagefile.Open as the way the pool opens its page
// file.
func OptPoolStore(open func(name string) (PageStore, error)) PoolOption {
	return func(b *BufferPool) error {
		b.open = open
		return nil
	}
}

// NewBufferPool opens pageFile and returns a pool of numFrames empty frames
// using the given replacement strategy. strategyData is kept for the
// strategy; the built-in strategies ignore it.
func NewBufferPool(pageFile string, numFrames int, strategy Strategy, strategyData interface{}, opts ...PoolOption) (*BufferPool, error) {
	b := &BufferPool{
		pageFile:     pageFile,
		strategy:     strategy,
		strategyData: strategyData,
		logger:       logger.NopLogger,
		open:         openPageFile,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}
	if numFrames <= 0 {
		return nil, newErrInvalidPoolSize(numFrames)
	}
	replacer, err := newReplacer(strategy, numFrames)
	if err != nil {
		return nil, err
	}

	store, err := b.open(pageFile)
	if err != nil {
		return nil, newErrOpenFailed(pageFile, err)
	}

	b.store = store
	b.replacer = replacer
	b.frames = make([]*frame, numFrames)
	b.freeList = make([]FrameID, 0, numFrames)
	for i := 0; i < numFrames; i++ {
		b.frames[i] = newFrame(FrameID(i))
		b.freeList = append(b.freeList, FrameID(i))
	}
	b.pageTable = make(map[PageID]FrameID, numFrames)
	b.scratch = make([]byte, pagefile.PageSize)

	b.logger.Infof("opened buffer pool on '%s': %d frames, %s", pageFile, numFrames, strategy)
	return b, nil
}

// NewFromConfig returns a pool built from a validated configuration.
func NewFromConfig(c *cfg.Config, opts ...PoolOption) (*BufferPool, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	strategy, err := ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	return NewBufferPool(c.PageFile, c.NumFrames, strategy, nil, opts...)
}

// PinPage returns a handle on page id, reading it from the page file if it
// is not resident. The page file is grown with empty pages when id lies past
// its end.
func (b *BufferPool) PinPage(id PageID) (*PageHandle, error) {
	if b.closed {
		return nil, newErrPoolClosed(b.pageFile)
	}
	if id < 0 || int64(id) > pagefile.MaxPageID {
		return nil, newErrInvalidPageNumber(id)
	}

	if f, ok := b.lookup(id); ok {
		f.fixCount++
		b.replacer.Access(f.id)
		CounterPageHits.Inc()
		return f.handle(), nil
	}
	CounterPageMisses.Inc()

	f, err := b.frameForLoad()
	if err != nil {
		return nil, err
	}

	if f.resident() && f.dirty {
		if err := b.writeBack(f); err != nil {
			return nil, errors.Wrapf(err, "writing back page %d", f.pageID)
		}
	}

	if err := b.store.EnsureCapacity(int(id) + 1); err != nil {
		return nil, errors.Wrapf(err, "growing page file to page %d", id)
	}
	if err := b.store.ReadPage(id, b.scratch); err != nil {
		return nil, errors.Wrapf(err, "reading page %d", id)
	}
	b.numReadIO++
	CounterPageReads.Inc()

	if f.resident() {
		b.logger.Debugf("evicting page %d from frame %d for page %d", f.pageID, f.id, id)
		CounterEvictions.Inc()
	} else {
		b.logger.Debugf("loading page %d into free frame %d", id, f.id)
	}
	b.bind(f, id, b.scratch)
	b.replacer.Load(f.id)
	return f.handle(), nil
}

// frameForLoad picks the frame a missing page goes into without changing
// any state: the lowest free frame, else the replacer's victim.
func (b *BufferPool) frameForLoad() (*frame, error) {
	if len(b.freeList) > 0 {
		return b.frames[b.freeList[0]], nil
	}
	victim, ok := b.replacer.Victim(func(id FrameID) bool {
		return b.frames[id].pinned()
	})
	if !ok {
		return nil, newErrNoFreeFrame(len(b.frames))
	}
	return b.frames[victim], nil
}

// residentFrame returns the frame holding the page of h.
func (b *BufferPool) residentFrame(h *PageHandle) (*frame, error) {
	if b.closed {
		return nil, newErrPoolClosed(b.pageFile)
	}
	if h == nil {
		return nil, newErrPageNotResident(NoPage)
	}
	f, ok := b.lookup(h.PageID)
	if !ok {
		return nil, newErrPageNotResident(h.PageID)
	}
	return f, nil
}

// UnpinPage drops one pin on the page of h.
func (b *BufferPool) UnpinPage(h *PageHandle) error {
	f, err := b.residentFrame(h)
	if err != nil {
		return err
	}
	return f.release()
}

// MarkDirty records that the page of h was modified and must be written
// before its frame is reused.
func (b *BufferPool) MarkDirty(h *PageHandle) error {
	f, err := b.residentFrame(h)
	if err != nil {
		return err
	}
	f.markDirty()
	return nil
}

// ForcePage writes the page of h to the page file, dirty or not.
func (b *BufferPool) ForcePage(h *PageHandle) error {
	f, err := b.residentFrame(h)
	if err != nil {
		return err
	}
	return b.writeBack(f)
}

// FlushPool writes every dirty frame that is not pinned. It stops at the
// first write error.
func (b *BufferPool) FlushPool() error {
	if b.closed {
		return newErrPoolClosed(b.pageFile)
	}
	n := 0
	for _, f := range b.frames {
		if !f.resident() || !f.dirty || f.pinned() {
			continue
		}
		if err := b.writeBack(f); err != nil {
			return errors.Wrapf(err, "flushing page %d", f.pageID)
		}
		n++
	}
	b.logger.Debugf("flushed %d pages to '%s'", n, b.pageFile)
	return nil
}

// Shutdown flushes the pool and closes the page file. It fails with
// ErrPoolBusy, leaving the pool usable, while any page is pinned. Once the
// flush succeeds the pool is closed, whatever closing the page file returns.
func (b *BufferPool) Shutdown() error {
	if b.closed {
		return newErrPoolClosed(b.pageFile)
	}
	if err := b.FlushPool(); err != nil {
		return err
	}
	pinned := 0
	for _, f := range b.frames {
		if f.pinned() {
			pinned++
		}
	}
	if pinned > 0 {
		return newErrPoolBusy(pinned)
	}

	// every page is on disk by now, so the pool is closed even if the page
	// file fails to close
	err := b.store.Close()
	b.frames = nil
	b.freeList = nil
	b.pageTable = nil
	b.scratch = nil
	b.closed = true
	if err != nil {
		b.logger.Errorf("closing page file '%s': %v", b.pageFile, err)
		return errors.Wrapf(err, "closing page file '%s'", b.pageFile)
	}
	b.logger.Infof("shut down buffer pool on '%s': %d reads, %d writes", b.pageFile, b.numReadIO, b.numWriteIO)
	return nil
}

func (b *BufferPool) writeBack(f *frame) error {
	if err := b.store.WritePage(f.pageID, f.data); err != nil {
		return err
	}
	f.dirty = false
	b.numWriteIO++
	CounterPageWrites.Inc()
	return nil
}

// FrameContents returns the page held by each frame, NoPage for empty ones.
func (b *BufferPool) FrameContents() []PageID {
	out := make([]PageID, len(b.frames))
	for i, f := range b.frames {
		out[i] = f.pageID
	}
	return out
}

func (b *BufferPool) DirtyFlags() []bool {
	out := make([]bool, len(b.frames))
	for i, f := range b.frames {
		out[i] = f.dirty
	}
	return out
}

func (b *BufferPool) FixCounts() []int {
	out := make([]int, len(b.frames))
	for i, f := range b.frames {
		out[i] = f.fixCount
	}
	return out
}

// NumReadIO returns the number of pages read since the pool was created.
func (b *BufferPool) NumReadIO() int { return b.numReadIO }

// NumWriteIO returns the number of pages written since the pool was created.
func (b *BufferPool) NumWriteIO() int { return b.numWriteIO }

func (b *BufferPool) Capacity() int { return len(b.frames) }

func (b *BufferPool) PageFile() string { return b.pageFile }

func (b *BufferPool) Strategy() Strategy { return b.strategy }

func (b *BufferPool) StrategyData() interface{} { return b.strategyData }

func (b *BufferPool) Closed() bool { return b.closed }

// EvictionOrder returns the frames in the order the replacer considers
// them, pins aside. Empty once the pool is shut down.
func (b *BufferPool) EvictionOrder() []FrameID {
	if b.closed {
		return nil
	}
	return b.replacer.Order()
}

// Dump writes the frame table of the pool.
func (b *BufferPool) Dump(w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\n", b.pageFile, b.strategy)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault

	t.AppendHeader(table.Row{"frame", "page", "dirty", "fix"})
	for _, f := range b.frames {
		page := "-"
		if f.resident() {
			page = fmt.Sprintf("%d", f.pageID)
		}
		t.AppendRow(table.Row{f.id, page, f.dirty, f.fixCount})
	}
	t.AppendFooter(table.Row{"reads", b.numReadIO, "writes", b.numWriteIO})
	t.Render()
}
