// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

import (
	"strings"
)

// Strategy selects the replacement policy of a pool.
type Strategy int

const (
	StrategyFIFO Strategy = iota
	StrategyLRU
	StrategyClock
)

func (s Strategy) String() string {
	switch s {
	case StrategyFIFO:
		return "fifo"
	case StrategyLRU:
		return "lru"
	case StrategyClock:
		return "clock"
	}
	return "unknown"
}

// ParseStrategy returns the strategy named s, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "fifo":
		return StrategyFIFO, nil
	case "lru":
		return StrategyLRU, nil
	case "clock":
		return StrategyClock, nil
	}
	return 0, newErrUnknownStrategy(s)
}

// Replacer elects the frame to evict when the pool is full.
type Replacer interface {
	// Load records that frame id has just been filled with a new page.
	Load(id FrameID)
	// Access records a pin of the page already resident in frame id.
	Access(id FrameID)
	// Victim returns the frame to evict, never one for which pinned
	// returns true. The second result is false when every frame is
	// pinned.
	Victim(pinned func(FrameID) bool) (FrameID, bool)
	// Order returns every frame in the order the replacer would consider
	// them as victims, pins aside.
	Order() []FrameID
}

func newReplacer(s Strategy, numFrames int) (Replacer, error) {
	switch s {
	case StrategyFIFO:
		return &fifoReplacer{list: newFrameList(numFrames)}, nil
	case StrategyLRU:
		return &lruReplacer{list: newFrameList(numFrames)}, nil
	case StrategyClock:
		return newClockReplacer(numFrames), nil
	}
	return nil, newErrUnknownStrategy(s.String())
}

// fifoReplacer evicts in arrival order. Hits do not move a frame.
type fifoReplacer struct {
	list *frameList
}

func (r *fifoReplacer) Load(id FrameID)   { r.list.moveToBack(id) }
func (r *fifoReplacer) Access(id FrameID) {}

func (r *fifoReplacer) Victim(pinned func(FrameID) bool) (FrameID, bool) {
	return r.list.first(func(id FrameID) bool { return !pinned(id) })
}

func (r *fifoReplacer) Order() []FrameID { return r.list.ids() }

// lruReplacer evicts the least recently pinned frame. Frames pinned equally
// long ago cannot exist; every pin moves its frame to the tail.
type lruReplacer struct {
	list *frameList
}

func (r *lruReplacer) Load(id FrameID)   { r.list.moveToBack(id) }
func (r *lruReplacer) Access(id FrameID) { r.list.moveToBack(id) }

func (r *lruReplacer) Victim(pinned func(FrameID) bool) (FrameID, bool) {
	return r.list.first(func(id FrameID) bool { return !pinned(id) })
}

func (r *lruReplacer) Order() []FrameID { return r.list.ids() }
