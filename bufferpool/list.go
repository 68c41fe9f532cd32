// Copyright 2023 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package bufferpool

// frameList is a doubly linked list of every frame in the pool, addressed by
// frame id rather than by pointer. The head is the next eviction candidate,
// the tail the most recently favored frame.
type frameList struct {
	prev []FrameID
	next []FrameID
	head FrameID
	tail FrameID
}

// newFrameList returns a list holding frames 0..n-1 in order.
func newFrameList(n int) *frameList {
	l := &frameList{
		prev: make([]FrameID, n),
		next: make([]FrameID, n),
		head: invalidFrame,
		tail: invalidFrame,
	}
	for i := 0; i < n; i++ {
		l.prev[i], l.next[i] = invalidFrame, invalidFrame
		l.pushBack(FrameID(i))
	}
	return l
}

func (l *frameList) pushBack(id FrameID) {
	l.prev[id] = l.tail
	l.next[id] = invalidFrame
	if l.tail != invalidFrame {
		l.next[l.tail] = id
	} else {
		l.head = id
	}
	l.tail = id
}

func (l *frameList) remove(id FrameID) {
	prev, next := l.prev[id], l.next[id]
	if prev != invalidFrame {
		l.next[prev] = next
	} else {
		l.head = next
	}
	if next != invalidFrame {
		l.prev[next] = prev
	} else {
		l.tail = prev
	}
	l.prev[id], l.next[id] = invalidFrame, invalidFrame
}

func (l *frameList) moveToBack(id FrameID) {
	if l.tail == id {
		return
	}
	l.remove(id)
	l.pushBack(id)
}

// first returns the first frame from the head for which fn is true.
func (l *frameList) first(fn func(FrameID) bool) (FrameID, bool) {
	for id := l.head; id != invalidFrame; id = l.next[id] {
		if fn(id) {
			return id, true
		}
	}
	return invalidFrame, false
}

func (l *frameList) ids() []FrameID {
	out := make([]FrameID, 0, len(l.next))
	for id := l.head; id != invalidFrame; id = l.next[id] {
		out = append(out, id)
	}
	return out
}
