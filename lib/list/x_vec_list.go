package list

// References:
// https://doc.rust-lang.org/std/collections/struct.LinkedList.html
// https://github.com/boltdb/bolt/blob/master/freelist.go
// https://en.wikipedia.org/wiki/Free_list
//
// The classic pointer-based doubly linked list scatters its nodes all
// over the heap, so a traversal is a chain of cache misses. Storing the
// nodes in one contiguous arena and linking them by slot index keeps
// traversals inside a few cache lines and lets removed slots be reused
// without going back to the allocator.

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xvlist/lib/id"
	"github.com/benz9527/xvlist/lib/infra"
)

var _ VecList[uint8] = (*xVecList[uint8])(nil) // Type check assertion

// vecListVerGen stamps every structural mutation so that stale derived
// handles (views, iterators) can be detected instead of silently
// corrupting the chain.
var vecListVerGen = lo.Must[id.UUIDGen](id.MonotonicNonZeroID())

type xVecList[T comparable] struct {
	nodes      []vecListNode[T]
	freeHead   int64
	freeLen    int64
	head, tail int64
	len        int64
	gen        uint64
	draining   bool
	stats      *vecListStats
}

type VecListOpt[T comparable] func(*xVecList[T])

// WithVecListCapacity pre-sizes the arena for n elements.
func WithVecListCapacity[T comparable](n int64) VecListOpt[T] {
	return func(l *xVecList[T]) {
		if n > 0 {
			l.nodes = make([]vecListNode[T], 0, n)
		}
	}
}

func NewVecList[T comparable](opts ...VecListOpt[T]) VecList[T] {
	l := &xVecList[T]{
		freeHead: nullSlot,
		head:     nullSlot,
		tail:     nullSlot,
	}
	for _, o := range opts {
		if o != nil {
			o(l)
		}
	}
	l.touch()
	return l
}

// NewVecListOf builds a list holding the values in order.
func NewVecListOf[T comparable](values ...T) VecList[T] {
	l := NewVecList[T](WithVecListCapacity[T](int64(len(values))))
	l.AppendValue(values...)
	return l
}

func (l *xVecList[T]) touch() {
	l.gen = vecListVerGen.Number()
}

// guardMutable fails fast when a structural mutation is attempted while
// a drain holds the list.
func (l *xVecList[T]) guardMutable() {
	if l.draining {
		panic(ErrVecListDraining)
	}
}

func (l *xVecList[T]) Len() int64 { return l.len }

func (l *xVecList[T]) Cap() int64 { return int64(cap(l.nodes)) }

func (l *xVecList[T]) Empty() bool { return l.len == 0 }

func (l *xVecList[T]) Reserve(n int64) {
	l.guardMutable()
	if spare := l.spareSlots(); n > spare {
		l.nodes = slices.Grow(l.nodes, int(n-spare))
	}
}

func (l *xVecList[T]) ReserveExact(n int64) {
	l.guardMutable()
	missing := n - l.freeLen
	if missing <= 0 || missing <= int64(cap(l.nodes)-len(l.nodes)) {
		return
	}
	nodes := make([]vecListNode[T], len(l.nodes), int64(len(l.nodes))+missing)
	copy(nodes, l.nodes)
	l.nodes = nodes
}

func (l *xVecList[T]) PushFront(v T) {
	l.guardMutable()
	s := l.alloc(v)
	if l.len == 0 {
		l.head, l.tail = s, s
	} else {
		l.nodes[s].next = l.head
		l.nodes[l.head].prev = s
		l.head = s
	}
	l.len++
	l.touch()
	l.stats.RecordElementCount(1)
}

func (l *xVecList[T]) PushBack(v T) {
	l.guardMutable()
	s := l.alloc(v)
	if l.len == 0 {
		l.head, l.tail = s, s
	} else {
		l.nodes[s].prev = l.tail
		l.nodes[l.tail].next = s
		l.tail = s
	}
	l.len++
	l.touch()
	l.stats.RecordElementCount(1)
}

func (l *xVecList[T]) PopFront() (T, bool) {
	l.guardMutable()
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.removeSlot(l.head), true
}

func (l *xVecList[T]) PopBack() (T, bool) {
	l.guardMutable()
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.removeSlot(l.tail), true
}

func (l *xVecList[T]) Front() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.nodes[l.head].value, true
}

func (l *xVecList[T]) Back() (T, bool) {
	if l.len == 0 {
		var zero T
		return zero, false
	}
	return l.nodes[l.tail].value, true
}

func (l *xVecList[T]) FrontMut() *T {
	if l.len == 0 {
		return nil
	}
	return &l.nodes[l.head].value
}

func (l *xVecList[T]) BackMut() *T {
	if l.len == 0 {
		return nil
	}
	return &l.nodes[l.tail].value
}

// slotAt resolves position i to its slot index, walking from whichever
// end is closer: i steps from the head or len-1-i steps from the tail,
// O(min(i, len-i)). Bounds must have been validated by the caller.
// A missing link inside the validated range means the chain bookkeeping
// is corrupted, which is a bug, not an error path.
func (l *xVecList[T]) slotAt(i int64) int64 {
	var s int64
	if reverse := l.len - i - 1; i <= reverse {
		s = l.head
		for step := int64(0); step < i; step++ {
			if s = l.nodes[s].next; s == nullSlot {
				panic(ErrVecListCorruptedLinks)
			}
		}
	} else {
		s = l.tail
		for step := int64(0); step < reverse; step++ {
			if s = l.nodes[s].prev; s == nullSlot {
				panic(ErrVecListCorruptedLinks)
			}
		}
	}
	return s
}

func (l *xVecList[T]) checkPos(i int64) error {
	if i < 0 || i >= l.len {
		return infra.WrapErrorStackWithMessage(ErrVecListIndexOutOfRange,
			fmt.Sprintf("position (%d) is out of [0, %d)", i, l.len))
	}
	return nil
}

func (l *xVecList[T]) At(i int64) (T, error) {
	if err := l.checkPos(i); err != nil {
		var zero T
		return zero, err
	}
	return l.nodes[l.slotAt(i)].value, nil
}

func (l *xVecList[T]) Update(i int64, v T) (T, error) {
	l.guardMutable()
	if err := l.checkPos(i); err != nil {
		var zero T
		return zero, err
	}
	s := l.slotAt(i)
	old := l.nodes[s].value
	l.nodes[s].value = v
	return old, nil
}

// insertBeforeSlot splices a freshly allocated node holding v between
// slot s and its predecessor, O(1).
func (l *xVecList[T]) insertBeforeSlot(s int64, v T) int64 {
	n := l.alloc(v)
	prev := l.nodes[s].prev
	l.nodes[n].prev, l.nodes[n].next = prev, s
	l.nodes[s].prev = n
	if prev != nullSlot {
		l.nodes[prev].next = n
	} else {
		l.head = n
	}
	l.len++
	l.touch()
	l.stats.RecordElementCount(1)
	return n
}

func (l *xVecList[T]) insertAfterSlot(s int64, v T) int64 {
	n := l.alloc(v)
	next := l.nodes[s].next
	l.nodes[n].prev, l.nodes[n].next = s, next
	l.nodes[s].next = n
	if next != nullSlot {
		l.nodes[next].prev = n
	} else {
		l.tail = n
	}
	l.len++
	l.touch()
	l.stats.RecordElementCount(1)
	return n
}

func (l *xVecList[T]) InsertBeforeAt(i int64, v T) error {
	l.guardMutable()
	if err := l.checkPos(i); err != nil {
		return err
	}
	l.insertBeforeSlot(l.slotAt(i), v)
	return nil
}

func (l *xVecList[T]) InsertAfterAt(i int64, v T) error {
	l.guardMutable()
	if err := l.checkPos(i); err != nil {
		return err
	}
	l.insertAfterSlot(l.slotAt(i), v)
	return nil
}

// removeSlot unlinks slot s from the active chain, patches the ends and
// returns the value by move.
func (l *xVecList[T]) removeSlot(s int64) T {
	prev, next := l.nodes[s].prev, l.nodes[s].next
	if prev != nullSlot {
		l.nodes[prev].next = next
	} else {
		l.head = next
	}
	if next != nullSlot {
		l.nodes[next].prev = prev
	} else {
		l.tail = prev
	}
	l.len--
	if l.len == 0 {
		l.head, l.tail = nullSlot, nullSlot
	}
	l.touch()
	l.stats.RecordElementCount(-1)
	return l.dealloc(s)
}

func (l *xVecList[T]) RemoveAt(i int64) (T, error) {
	l.guardMutable()
	if err := l.checkPos(i); err != nil {
		var zero T
		return zero, err
	}
	return l.removeSlot(l.slotAt(i)), nil
}

func (l *xVecList[T]) Contains(v T) bool {
	for s := l.head; s != nullSlot; s = l.nodes[s].next {
		if l.nodes[s].value == v {
			return true
		}
	}
	return false
}

func (l *xVecList[T]) Retain(pred func(v *T) bool) {
	l.guardMutable()
	if pred == nil {
		return
	}
	// The successor is captured before the predicate runs so a removal
	// never disturbs the rest of the traversal.
	for s := l.head; s != nullSlot; {
		next := l.nodes[s].next
		if !pred(&l.nodes[s].value) {
			l.removeSlot(s)
		}
		s = next
	}
}

func (l *xVecList[T]) AppendValue(values ...T) {
	l.guardMutable()
	if int64(len(values)) > l.spareSlots() {
		l.Reserve(int64(len(values)))
	}
	for _, v := range values {
		l.PushBack(v)
	}
}

func (l *xVecList[T]) Append(other VecList[T]) error {
	l.guardMutable()
	if other == nil || other == VecList[T](l) || other.Empty() {
		return nil
	}
	if need := other.Len() - l.spareSlots(); need > 0 {
		l.Reserve(other.Len())
	}
	d, err := other.Drain(Unbounded(), Unbounded())
	if err != nil {
		return infra.WrapErrorStack(err)
	}
	defer d.Release()
	for v, ok := d.Next(); ok; v, ok = d.Next() {
		l.PushBack(v)
	}
	return nil
}

func (l *xVecList[T]) SplitAt(i int64) (VecList[T], error) {
	l.guardMutable()
	if i < 0 || i > l.len {
		return nil, infra.WrapErrorStackWithMessage(ErrVecListIndexOutOfRange,
			fmt.Sprintf("split position (%d) is out of [0, %d]", i, l.len))
	}
	rest := NewVecList[T](WithVecListCapacity[T](l.len - i))
	d, err := l.Drain(Included(i), Unbounded())
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	defer d.Release()
	for v, ok := d.Next(); ok; v, ok = d.Next() {
		rest.PushBack(v)
	}
	return rest, nil
}

func (l *xVecList[T]) Clear() {
	l.guardMutable()
	for s := l.head; s != nullSlot; {
		next := l.nodes[s].next
		l.dealloc(s)
		s = next
	}
	l.head, l.tail = nullSlot, nullSlot
	l.stats.RecordElementCount(-l.len)
	l.len = 0
	l.touch()
}

// ShrinkToFit compacts the arena so the active chain occupies exactly
// the slots [0, len) and then truncates the backing buffer, releasing
// its excess capacity. Only free slots below len are valid relocation
// targets; a free slot at or above len is simply discarded along with
// the truncated region.
func (l *xVecList[T]) ShrinkToFit() {
	l.guardMutable()
	total := int64(len(l.nodes))
	if l.len < total {
		free := make([]bool, total)
		for f := l.freeHead; f != nullSlot; f = l.nodes[f].next {
			free[f] = true
		}
		// Lowest-first free targets below len.
		dst := int64(0)
		nextTarget := func() int64 {
			for ; dst < l.len; dst++ {
				if free[dst] {
					free[dst] = false
					return dst
				}
			}
			panic(ErrVecListCorruptedLinks)
		}
		for s := l.len; s < total; s++ {
			if free[s] {
				continue
			}
			t := nextTarget()
			l.moveSlot(s, t)
		}
	}
	nodes := make([]vecListNode[T], l.len)
	copy(nodes, l.nodes[:l.len])
	l.nodes = nodes
	l.freeHead = nullSlot
	l.freeLen = 0
	l.touch()
	l.stats.IncreaseCompaction()
}

// moveSlot relocates the active node at slot s into the free slot t and
// relinks both neighbours (and the ends when s was a boundary). The
// vacated slot s is left behind for truncation; the free value at t was
// never read.
func (l *xVecList[T]) moveSlot(s, t int64) {
	n := l.nodes[s]
	l.nodes[t] = n
	if n.prev != nullSlot {
		l.nodes[n.prev].next = t
	} else {
		l.head = t
	}
	if n.next != nullSlot {
		l.nodes[n.next].prev = t
	} else {
		l.tail = t
	}
}

func (l *xVecList[T]) Foreach(fn func(idx int64, v *T) error) error {
	if fn == nil {
		return nil
	}
	idx := int64(0)
	for s := l.head; s != nullSlot; idx++ {
		next := l.nodes[s].next
		if err := fn(idx, &l.nodes[s].value); err != nil {
			return err
		}
		s = next
	}
	return nil
}

func (l *xVecList[T]) ReverseForeach(fn func(idx int64, v *T) error) error {
	if fn == nil {
		return nil
	}
	idx := int64(0)
	for s := l.tail; s != nullSlot; idx++ {
		prev := l.nodes[s].prev
		if err := fn(idx, &l.nodes[s].value); err != nil {
			return err
		}
		s = prev
	}
	return nil
}

func (l *xVecList[T]) Equal(other VecList[T]) bool {
	if other == nil || l.len != other.Len() {
		return false
	}
	equal := true
	it := other.Iter()
	_ = l.Foreach(func(_ int64, v *T) error {
		o, ok := it.Next()
		if !ok || *v != o {
			equal = false
			return errVecListStopIteration
		}
		return nil
	})
	return equal
}

// String renders the logical sequence, never the slot layout.
func (l *xVecList[T]) String() string {
	var b strings.Builder
	b.WriteString("VecList[")
	_ = l.Foreach(func(idx int64, v *T) error {
		if idx > 0 {
			b.WriteString(",")
		}
		_, _ = fmt.Fprintf(&b, "%v", *v)
		return nil
	})
	b.WriteString("]")
	return b.String()
}

// CompareVecLists orders two lists lexicographically by their elements,
// returning -1, 0 or 1. Ordering requires an ordered element type.
func CompareVecLists[T infra.OrderedKey](a, b VecList[T]) int64 {
	ia, ib := a.Iter(), b.Iter()
	for {
		va, oka := ia.Next()
		vb, okb := ib.Next()
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return -1
		case !okb:
			return 1
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
	}
}
