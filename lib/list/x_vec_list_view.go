package list

// A view is a cursor bound to one element of the list. It carries the
// generation stamp of the list at the moment it was handed out; any
// structural mutation of the list (other than through the view itself)
// invalidates the view, and every later use of it panics with
// ErrVecListStaleHandle. This is what keeps a cheap slot index from
// silently pointing at a recycled or relocated element.

// VecListView is a read-only cursor.
type VecListView[T comparable] struct {
	list *xVecList[T]
	slot int64
	gen  uint64
}

// VecListViewMut is a cursor that may splice and remove around (and at)
// its position. Its own mutations keep the view alive by refreshing the
// generation stamp.
type VecListViewMut[T comparable] struct {
	VecListView[T]
}

func (l *xVecList[T]) View(i int64) (*VecListView[T], error) {
	if err := l.checkPos(i); err != nil {
		return nil, err
	}
	return &VecListView[T]{list: l, slot: l.slotAt(i), gen: l.gen}, nil
}

func (l *xVecList[T]) ViewMut(i int64) (*VecListViewMut[T], error) {
	l.guardMutable()
	if err := l.checkPos(i); err != nil {
		return nil, err
	}
	return &VecListViewMut[T]{VecListView[T]{list: l, slot: l.slotAt(i), gen: l.gen}}, nil
}

func (v *VecListView[T]) ensureFresh() {
	if v.gen != v.list.gen {
		panic(ErrVecListStaleHandle)
	}
}

// Next moves the cursor to the successor element. It reports false and
// stays put at the back of the list.
func (v *VecListView[T]) Next() bool {
	v.ensureFresh()
	if v.slot == nullSlot {
		return false
	}
	next := v.list.nodes[v.slot].next
	if next == nullSlot {
		return false
	}
	v.slot = next
	return true
}

// Prev moves the cursor to the predecessor element. It reports false
// and stays put at the front of the list.
func (v *VecListView[T]) Prev() bool {
	v.ensureFresh()
	if v.slot == nullSlot {
		return false
	}
	prev := v.list.nodes[v.slot].prev
	if prev == nullSlot {
		return false
	}
	v.slot = prev
	return true
}

// Value reads the element under the cursor. ok is false once the view
// has deleted its way through the whole list.
func (v *VecListView[T]) Value() (T, bool) {
	v.ensureFresh()
	if v.slot == nullSlot {
		var zero T
		return zero, false
	}
	return v.list.nodes[v.slot].value, true
}

// Ref exposes the element under the cursor for in-place update, or nil
// when the cursor no longer rests on an element. The pointer is valid
// until the next structural mutation.
func (v *VecListView[T]) Ref() *T {
	v.ensureFresh()
	if v.slot == nullSlot {
		return nil
	}
	return &v.list.nodes[v.slot].value
}

// InsertBefore splices v immediately before the cursor. The cursor
// stays on its element.
func (vm *VecListViewMut[T]) InsertBefore(v T) {
	vm.ensureFresh()
	vm.list.guardMutable()
	if vm.slot == nullSlot {
		panic(ErrVecListIsEmpty)
	}
	vm.list.insertBeforeSlot(vm.slot, v)
	vm.gen = vm.list.gen
}

// InsertAfter splices v immediately after the cursor. The cursor stays
// on its element.
func (vm *VecListViewMut[T]) InsertAfter(v T) {
	vm.ensureFresh()
	vm.list.guardMutable()
	if vm.slot == nullSlot {
		panic(ErrVecListIsEmpty)
	}
	vm.list.insertAfterSlot(vm.slot, v)
	vm.gen = vm.list.gen
}

// RemoveBefore removes and returns the predecessor of the cursor. ok is
// false when the cursor is at the front.
func (vm *VecListViewMut[T]) RemoveBefore() (T, bool) {
	vm.ensureFresh()
	vm.list.guardMutable()
	if vm.slot == nullSlot || vm.list.nodes[vm.slot].prev == nullSlot {
		var zero T
		return zero, false
	}
	val := vm.list.removeSlot(vm.list.nodes[vm.slot].prev)
	vm.gen = vm.list.gen
	return val, true
}

// RemoveAfter removes and returns the successor of the cursor. ok is
// false when the cursor is at the back.
func (vm *VecListViewMut[T]) RemoveAfter() (T, bool) {
	vm.ensureFresh()
	vm.list.guardMutable()
	if vm.slot == nullSlot || vm.list.nodes[vm.slot].next == nullSlot {
		var zero T
		return zero, false
	}
	val := vm.list.removeSlot(vm.list.nodes[vm.slot].next)
	vm.gen = vm.list.gen
	return val, true
}

// Delete removes the element under the cursor and returns it. The
// cursor moves to the successor, falling back to the predecessor at the
// back of the list; once the list is drained empty the cursor detaches
// and ok turns false on further calls.
func (vm *VecListViewMut[T]) Delete() (T, bool) {
	vm.ensureFresh()
	vm.list.guardMutable()
	if vm.slot == nullSlot {
		var zero T
		return zero, false
	}
	landing := vm.list.nodes[vm.slot].next
	if landing == nullSlot {
		landing = vm.list.nodes[vm.slot].prev
	}
	val := vm.list.removeSlot(vm.slot)
	vm.slot = landing
	vm.gen = vm.list.gen
	return val, true
}
