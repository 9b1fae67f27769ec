package list

import (
	"fmt"

	"github.com/benz9527/xvlist/lib/infra"
)

// A drain removes elements lazily: each Next or NextBack unlinks and
// yields the element at that edge of the residual range, and Release
// finishes the removal of whatever was not stepped through. Between
// construction and Release the list is held by the drain, and every
// structural mutation through any other handle panics with
// ErrVecListDraining. Dropping a drain without calling Release leaks
// the hold, so Release is the contract, usually via defer.

// VecListDrain removes and yields a contiguous index range from either
// end.
type VecListDrain[T comparable] struct {
	list      *xVecList[T]
	cur, back int64
	remaining int64
	released  bool
}

// VecListDrainFilter removes and yields the elements a predicate
// selects out of the chain as it stood when the drain started.
type VecListDrainFilter[T comparable] struct {
	list     *xVecList[T]
	pred     func(v *T) bool
	cur, end int64
	released bool
}

// resolveDrainBounds turns the two range bounds into a half-open slice
// [start, endExcl) of positions.
func resolveDrainBounds(from, to Bound, length int64) (start, endExcl int64, err error) {
	switch from.kind {
	case boundIncluded:
		start = from.idx
	case boundExcluded:
		start = from.idx + 1
	case boundUnbounded:
		start = 0
	}
	switch to.kind {
	case boundIncluded:
		endExcl = to.idx + 1
	case boundExcluded:
		endExcl = to.idx
	case boundUnbounded:
		endExcl = length
	}
	if start < 0 || endExcl > length {
		return 0, 0, infra.WrapErrorStackWithMessage(ErrVecListIndexOutOfRange,
			fmt.Sprintf("drain range [%d, %d) exceeds [0, %d)", start, endExcl, length))
	}
	if start > endExcl {
		return 0, 0, infra.WrapErrorStackWithMessage(ErrVecListInvalidRange,
			fmt.Sprintf("drain range start (%d) is after end (%d)", start, endExcl))
	}
	return start, endExcl, nil
}

func (l *xVecList[T]) Drain(from, to Bound) (*VecListDrain[T], error) {
	l.guardMutable()
	start, endExcl, err := resolveDrainBounds(from, to, l.len)
	if err != nil {
		return nil, err
	}
	d := &VecListDrain[T]{
		list:      l,
		cur:       nullSlot,
		back:      nullSlot,
		remaining: endExcl - start,
	}
	if d.remaining > 0 {
		d.cur = l.slotAt(start)
		d.back = l.slotAt(endExcl - 1)
	}
	l.draining = true
	return d, nil
}

// Next unlinks and yields the element at the front edge of the
// residual range.
func (d *VecListDrain[T]) Next() (T, bool) {
	if d.released || d.remaining == 0 {
		var zero T
		return zero, false
	}
	s := d.cur
	d.cur = d.list.nodes[s].next
	d.remaining--
	return d.list.removeSlot(s), true
}

// NextBack unlinks and yields the element at the back edge of the
// residual range.
func (d *VecListDrain[T]) NextBack() (T, bool) {
	if d.released || d.remaining == 0 {
		var zero T
		return zero, false
	}
	s := d.back
	d.back = d.list.nodes[s].prev
	d.remaining--
	return d.list.removeSlot(s), true
}

// Remaining is the number of elements the drain has yet to remove.
// It is the O(1) counter alternative to the walking variant on
// iterators; the drain can afford it because only its own steps shrink
// the range.
func (d *VecListDrain[T]) Remaining() int64 {
	if d.released {
		return 0
	}
	return d.remaining
}

// Release removes whatever part of the range was not stepped through
// and gives the list back. Idempotent.
func (d *VecListDrain[T]) Release() {
	if d.released {
		return
	}
	for d.remaining > 0 {
		s := d.cur
		d.cur = d.list.nodes[s].next
		d.remaining--
		_ = d.list.removeSlot(s)
	}
	d.released = true
	d.list.draining = false
}

func (l *xVecList[T]) DrainFilter(pred func(v *T) bool) *VecListDrainFilter[T] {
	l.guardMutable()
	f := &VecListDrainFilter[T]{
		list: l,
		pred: pred,
		cur:  l.head,
		end:  l.tail,
	}
	if pred == nil || l.len == 0 {
		f.cur = nullSlot
	}
	l.draining = true
	return f
}

// Next applies the predicate to elements in order until one is
// selected, removes it and yields it. The predicate gets mutable access
// to every element it inspects, selected or not, so a filtering drain
// doubles as an in-place map over the inspected prefix.
func (f *VecListDrainFilter[T]) Next() (T, bool) {
	if f.released {
		var zero T
		return zero, false
	}
	for f.cur != nullSlot {
		s := f.cur
		if s == f.end {
			f.cur = nullSlot
		} else {
			f.cur = f.list.nodes[s].next
		}
		if f.pred(&f.list.nodes[s].value) {
			return f.list.removeSlot(s), true
		}
	}
	var zero T
	return zero, false
}

// NextBack is Next from the other end: it applies the predicate to
// elements in reverse order until one is selected, removes it and
// yields it. Inspected-but-kept elements still see the mutable access.
func (f *VecListDrainFilter[T]) NextBack() (T, bool) {
	if f.released {
		var zero T
		return zero, false
	}
	for f.cur != nullSlot {
		s := f.end
		if s == f.cur {
			f.cur = nullSlot
		} else {
			f.end = f.list.nodes[s].prev
		}
		if f.pred(&f.list.nodes[s].value) {
			return f.list.removeSlot(s), true
		}
	}
	var zero T
	return zero, false
}

// Release runs the predicate over the uninspected rest of the chain,
// removing every element it selects, and gives the list back.
// Idempotent.
func (f *VecListDrainFilter[T]) Release() {
	if f.released {
		return
	}
	for {
		if _, ok := f.Next(); !ok {
			break
		}
	}
	f.released = true
	f.list.draining = false
}
