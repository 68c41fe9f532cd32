// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

// clockReplacer implements a clock replacer algorithm. Every frame sits on
// the clock face; loads and hits set its reference bit, and the hand clears
// bits as it sweeps until it finds an unpinned frame whose bit is clear.
type clockReplacer struct {
	ref  []bool
	hand FrameID
}

func newClockReplacer(numFrames int) *clockReplacer {
	return &clockReplacer{ref: make([]bool, numFrames)}
}

func (c *clockReplacer) Load(id FrameID)   { c.ref[id] = true }
func (c *clockReplacer) Access(id FrameID) { c.ref[id] = true }

// Victim sweeps at most twice round the clock: the first pass may only clear
// reference bits. Pinned frames keep their bit.
func (c *clockReplacer) Victim(pinned func(FrameID) bool) (FrameID, bool) {
	n := FrameID(len(c.ref))
	for i := FrameID(0); i < 2*n; i++ {
		id := c.hand
		c.hand = (c.hand + 1) % n
		if pinned(id) {
			continue
		}
		if c.ref[id] {
			c.ref[id] = false
			continue
		}
		return id, true
	}
	return invalidFrame, false
}

func (c *clockReplacer) Order() []FrameID {
	n := FrameID(len(c.ref))
	out := make([]FrameID, 0, n)
	for i := FrameID(0); i < n; i++ {
		out = append(out, (c.hand+i)%n)
	}
	return out
}
