package list

// nullSlot marks the absence of a neighbour or of a free-list head.
const nullSlot int64 = -1

// vecListNode is one arena slot. While the slot is on the active chain,
// value holds a live element and prev/next are chain links (nullSlot at
// a boundary). While the slot is on the free list, value is zeroed,
// prev is nullSlot and next threads to the following free slot.
type vecListNode[T comparable] struct {
	prev, next int64
	value      T
}

// alloc hands out a slot holding v: the free-list head when one is
// available, otherwise a fresh slot appended to the arena. Appending
// grows the backing buffer by doubling (amortized O(1)); running out of
// memory aborts the process, which is the intended fatal outcome.
func (l *xVecList[T]) alloc(v T) int64 {
	if s := l.freeHead; s != nullSlot {
		l.freeHead = l.nodes[s].next
		l.freeLen--
		l.nodes[s] = vecListNode[T]{prev: nullSlot, next: nullSlot, value: v}
		l.stats.IncreaseSlotReused()
		return s
	}
	if len(l.nodes) == cap(l.nodes) {
		l.stats.IncreaseArenaGrown()
	}
	l.nodes = append(l.nodes, vecListNode[T]{prev: nullSlot, next: nullSlot, value: v})
	l.stats.IncreaseSlotAllocated()
	return int64(len(l.nodes)) - 1
}

// dealloc moves the value out of slot s and pushes s onto the free
// list. The caller must already have unlinked s from the active chain.
// The payload is zeroed so a freed value can never be observed again.
func (l *xVecList[T]) dealloc(s int64) T {
	n := &l.nodes[s]
	v := n.value
	var zero T
	n.value = zero
	n.prev = nullSlot
	n.next = l.freeHead
	l.freeHead = s
	l.freeLen++
	return v
}

// spareSlots is the number of elements the list can still take without
// growing the arena.
func (l *xVecList[T]) spareSlots() int64 {
	return l.freeLen + int64(cap(l.nodes)-len(l.nodes))
}
