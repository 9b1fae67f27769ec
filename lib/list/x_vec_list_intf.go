package list

import (
	"errors"
)

// A VecList is a doubly linked list whose nodes live in one contiguous
// growable arena instead of being individually heap allocated. It trades
// one indirection (slot index lookup) for cache friendly storage and
// slot reuse. Removed slots are recycled through a free list threaded
// inside the arena itself.
//
// Not thread safe. At most one mutable derived handle (mutable view,
// drain or filtering drain) may be outstanding at a time; the list
// guards against misuse at runtime with a generation stamp and a
// draining flag, both of which fail fast by panic.
type VecList[T comparable] interface {
	Len() int64
	// Cap returns the number of slots the arena can hold without growing.
	Cap() int64
	Empty() bool
	// Reserve ensures capacity for at least n more elements, counting
	// free-listed slots and spare arena capacity as already available.
	// It may over-allocate.
	Reserve(n int64)
	// ReserveExact is like Reserve but grows the arena by exactly the
	// missing amount.
	ReserveExact(n int64)
	// ShrinkToFit compacts the active chain into the slot range [0, Len())
	// and releases the arena's excess capacity.
	ShrinkToFit()
	// Clear removes every element. The arena capacity is kept.
	Clear()

	PushFront(v T)
	PushBack(v T)
	PopFront() (T, bool)
	PopBack() (T, bool)
	Front() (T, bool)
	Back() (T, bool)
	// FrontMut returns a pointer to the first element, or nil if the list
	// is empty. The pointer is valid until the next structural mutation.
	FrontMut() *T
	BackMut() *T

	At(i int64) (T, error)
	// Update overwrites the element at position i and returns the previous
	// value.
	Update(i int64, v T) (T, error)
	// InsertBeforeAt splices v immediately before position i.
	InsertBeforeAt(i int64, v T) error
	// InsertAfterAt splices v immediately after position i.
	InsertAfterAt(i int64, v T) error
	RemoveAt(i int64) (T, error)
	Contains(v T) bool

	// Retain keeps exactly the elements for which pred returns true,
	// preserving order. pred receives mutable access to every visited
	// element, including ones that end up removed.
	Retain(pred func(v *T) bool)
	// SplitAt drains [i, Len()) into a freshly constructed list,
	// preserving relative order. i == Len() yields an empty list.
	SplitAt(i int64) (VecList[T], error)
	// AppendValue pushes the values to the back, in order.
	AppendValue(values ...T)
	// Append moves all elements of other to the back of this list,
	// leaving other empty.
	Append(other VecList[T]) error

	Foreach(fn func(idx int64, v *T) error) error
	ReverseForeach(fn func(idx int64, v *T) error) error

	View(i int64) (*VecListView[T], error)
	ViewMut(i int64) (*VecListViewMut[T], error)
	Iter() *VecListIter[T]
	IterMut() *VecListIterMut[T]
	// Drain removes the index range resolved from the two bounds and
	// returns a double-ended iterator over the removed values. The whole resolved
	// range is removed once the iterator is released, no matter how many
	// elements were stepped through.
	Drain(from, to Bound) (*VecListDrain[T], error)
	// DrainFilter lazily removes and yields the elements for which pred
	// returns true, inspecting the entire chain as it stood at the call.
	// pred may mutate every inspected element regardless of its verdict.
	DrainFilter(pred func(v *T) bool) *VecListDrainFilter[T]

	// Equal reports element-wise sequence equality.
	Equal(other VecList[T]) bool
}

var (
	ErrVecListIsEmpty         = errors.New("[vec-list] there is no element")
	ErrVecListIndexOutOfRange = errors.New("[vec-list] index out of range")
	ErrVecListInvalidRange    = errors.New("[vec-list] malformed index range")
	ErrVecListStaleHandle     = errors.New("[vec-list] stale view or iterator handle")
	ErrVecListDraining        = errors.New("[vec-list] mutation while a drain is in progress")
	ErrVecListCorruptedLinks  = errors.New("[vec-list] broken chain link")

	// errVecListStopIteration short-circuits Foreach internally and is
	// never surfaced to callers.
	errVecListStopIteration = errors.New("[vec-list] stop iteration")
)

// Bound is one end of a drain range, mirroring the three ways an index
// range can be delimited.
type Bound struct {
	idx  int64
	kind boundKind
}

type boundKind uint8

const (
	boundIncluded boundKind = iota
	boundExcluded
	boundUnbounded
)

// Included bounds the range at index i, keeping i inside the range.
func Included(i int64) Bound { return Bound{idx: i, kind: boundIncluded} }

// Excluded bounds the range at index i, keeping i outside the range.
func Excluded(i int64) Bound { return Bound{idx: i, kind: boundExcluded} }

// Unbounded leaves the range open at this end.
func Unbounded() Bound { return Bound{kind: boundUnbounded} }
