package list

// VecListIter walks the list front to back (and back to front through
// NextBack) yielding value copies. Like views, an iterator is pinned to
// the generation of the list it was taken from and panics with
// ErrVecListStaleHandle after any structural mutation.
type VecListIter[T comparable] struct {
	list        *xVecList[T]
	front, back int64
	gen         uint64
	done        bool
}

// VecListIterMut is VecListIter yielding element pointers, so callers
// can update values in place while walking. It grants no structural
// access.
type VecListIterMut[T comparable] struct {
	VecListIter[T]
}

func (l *xVecList[T]) Iter() *VecListIter[T] {
	return &VecListIter[T]{
		list:  l,
		front: l.head,
		back:  l.tail,
		gen:   l.gen,
		done:  l.len == 0,
	}
}

func (l *xVecList[T]) IterMut() *VecListIterMut[T] {
	return &VecListIterMut[T]{VecListIter[T]{
		list:  l,
		front: l.head,
		back:  l.tail,
		gen:   l.gen,
		done:  l.len == 0,
	}}
}

func (it *VecListIter[T]) ensureFresh() {
	if it.gen != it.list.gen {
		panic(ErrVecListStaleHandle)
	}
}

// nextSlot advances the front cursor and returns the slot it stepped
// over, nullSlot on exhaustion. Shared by both directions' value and
// pointer flavours.
func (it *VecListIter[T]) nextSlot() int64 {
	it.ensureFresh()
	if it.done {
		return nullSlot
	}
	s := it.front
	if s == it.back {
		it.done = true
	} else {
		it.front = it.list.nodes[s].next
	}
	return s
}

func (it *VecListIter[T]) nextBackSlot() int64 {
	it.ensureFresh()
	if it.done {
		return nullSlot
	}
	s := it.back
	if s == it.front {
		it.done = true
	} else {
		it.back = it.list.nodes[s].prev
	}
	return s
}

func (it *VecListIter[T]) Next() (T, bool) {
	if s := it.nextSlot(); s != nullSlot {
		return it.list.nodes[s].value, true
	}
	var zero T
	return zero, false
}

func (it *VecListIter[T]) NextBack() (T, bool) {
	if s := it.nextBackSlot(); s != nullSlot {
		return it.list.nodes[s].value, true
	}
	var zero T
	return zero, false
}

// Remaining counts the elements not yet yielded from either end. It
// walks the chain, O(remaining), instead of carrying a counter that
// every step would have to maintain.
func (it *VecListIter[T]) Remaining() int64 {
	it.ensureFresh()
	if it.done {
		return 0
	}
	n := int64(1)
	for s := it.front; s != it.back; s = it.list.nodes[s].next {
		if s == nullSlot {
			panic(ErrVecListCorruptedLinks)
		}
		n++
	}
	return n
}

func (it *VecListIterMut[T]) Next() (*T, bool) {
	if s := it.nextSlot(); s != nullSlot {
		return &it.list.nodes[s].value, true
	}
	return nil, false
}

func (it *VecListIterMut[T]) NextBack() (*T, bool) {
	if s := it.nextBackSlot(); s != nullSlot {
		return &it.list.nodes[s].value, true
	}
	return nil, false
}
