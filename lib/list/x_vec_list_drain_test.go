package list

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVecListDrain_ClosedRange(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3, 4, 5)
	d, err := vl.Drain(Included(1), Included(3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Remaining())

	removed := make([]int, 0, 3)
	for v, ok := d.Next(); ok; v, ok = d.Next() {
		removed = append(removed, v)
	}
	d.Release()
	assert.Equal(t, []int{2, 3, 4}, removed)
	assert.Equal(t, []int{1, 5}, vecListToSlice[int](vl))
}

func TestVecListDrain_ClosedRangeFromBack(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3, 4, 5)
	d, err := vl.Drain(Included(1), Included(3))
	require.NoError(t, err)

	removed := make([]int, 0, 3)
	for v, ok := d.NextBack(); ok; v, ok = d.NextBack() {
		removed = append(removed, v)
	}
	d.Release()
	assert.Equal(t, []int{4, 3, 2}, removed)
	assert.Equal(t, []int{1, 5}, vecListToSlice[int](vl))
}

func TestVecListDrain_StepBothEnds(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3, 4, 5)
	d, err := vl.Drain(Included(1), Included(3))
	require.NoError(t, err)

	v, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	v, ok = d.NextBack()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, int64(1), d.Remaining())

	// The edges meet on the last element; either step removes it.
	v, ok = d.NextBack()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = d.Next()
	assert.False(t, ok)
	_, ok = d.NextBack()
	assert.False(t, ok)

	d.Release()
	assert.Equal(t, []int{1, 5}, vecListToSlice[int](vl))
}

func TestVecListDrain_BackThenRelease(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3, 4, 5)
	d, err := vl.Drain(Excluded(0), Excluded(4))
	require.NoError(t, err)
	v, ok := d.NextBack()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, int64(2), d.Remaining())
	d.Release()
	assert.Equal(t, []int{1, 5}, vecListToSlice[int](vl))
	_, ok = d.NextBack()
	assert.False(t, ok)
}

func TestVecListDrain_ReleaseWithoutConsuming(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3, 4, 5)
	d, err := vl.Drain(Included(1), Included(3))
	require.NoError(t, err)
	d.Release()
	d.Release() // idempotent
	assert.Equal(t, []int{1, 5}, vecListToSlice[int](vl))
	assert.Equal(t, int64(0), d.Remaining())
	_, ok := d.Next()
	assert.False(t, ok)
}

func TestVecListDrain_PartiallyConsumedThenReleased(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3, 4, 5)
	d, err := vl.Drain(Excluded(0), Excluded(4))
	require.NoError(t, err)
	v, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, int64(2), d.Remaining())
	d.Release()
	assert.Equal(t, []int{1, 5}, vecListToSlice[int](vl))
}

func TestVecListDrain_Unbounded(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	d, err := vl.Drain(Unbounded(), Unbounded())
	require.NoError(t, err)
	d.Release()
	assert.True(t, vl.Empty())

	// Drain on an empty list is an empty range, not an error.
	d, err = vl.Drain(Unbounded(), Unbounded())
	require.NoError(t, err)
	_, ok := d.Next()
	assert.False(t, ok)
	d.Release()

	vl.PushBack(7)
	assert.Equal(t, []int{7}, vecListToSlice[int](vl))
}

func TestVecListDrain_EmptyRange(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	d, err := vl.Drain(Included(1), Excluded(1))
	require.NoError(t, err)
	_, ok := d.Next()
	assert.False(t, ok)
	d.Release()
	assert.Equal(t, []int{1, 2, 3}, vecListToSlice[int](vl))
}

func TestVecListDrain_BadRanges(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	_, err := vl.Drain(Included(1), Included(3))
	require.True(t, errors.Is(err, ErrVecListIndexOutOfRange))
	_, err = vl.Drain(Included(-1), Unbounded())
	require.True(t, errors.Is(err, ErrVecListIndexOutOfRange))
	_, err = vl.Drain(Included(2), Excluded(1))
	require.True(t, errors.Is(err, ErrVecListInvalidRange))
	// A failed Drain must not leave the list held.
	vl.PushBack(4)
	assert.Equal(t, int64(4), vl.Len())
}

func TestVecListDrain_MutationWhileDrainingPanics(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	d, err := vl.Drain(Included(0), Excluded(2))
	require.NoError(t, err)
	require.Panics(t, func() {
		vl.PushBack(4)
	})
	require.Panics(t, func() {
		_, _ = vl.Drain(Unbounded(), Unbounded())
	})
	d.Release()
	vl.PushBack(4)
	assert.Equal(t, []int{3, 4}, vecListToSlice[int](vl))
}

func TestVecListDrainFilter_MutateThenSelect(t *testing.T) {
	vl := NewVecListOf[int](0, 1, 2, 3)
	f := vl.DrainFilter(func(v *int) bool {
		*v++
		return *v%2 == 0
	})
	removed := make([]int, 0, 2)
	for v, ok := f.Next(); ok; v, ok = f.Next() {
		removed = append(removed, v)
	}
	f.Release()
	assert.Equal(t, []int{2, 4}, removed)
	assert.Equal(t, []int{1, 3}, vecListToSlice[int](vl))
}

func TestVecListDrainFilter_MutateThenSelectFromBack(t *testing.T) {
	vl := NewVecListOf[int](0, 1, 2, 3)
	f := vl.DrainFilter(func(v *int) bool {
		*v++
		return *v%2 == 0
	})
	removed := make([]int, 0, 2)
	for v, ok := f.NextBack(); ok; v, ok = f.NextBack() {
		removed = append(removed, v)
	}
	f.Release()
	assert.Equal(t, []int{4, 2}, removed)
	assert.Equal(t, []int{1, 3}, vecListToSlice[int](vl))
}

func TestVecListDrainFilter_StepBothEnds(t *testing.T) {
	vl := NewVecListOf[int](0, 1, 2, 3)
	f := vl.DrainFilter(func(v *int) bool {
		*v++
		return *v%2 == 0
	})
	v, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	v, ok = f.NextBack()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	_, ok = f.Next()
	assert.False(t, ok)
	_, ok = f.NextBack()
	assert.False(t, ok)
	f.Release()
	// The kept elements were still mutated when inspected.
	assert.Equal(t, []int{1, 3}, vecListToSlice[int](vl))
}

func TestVecListDrainFilter_ReleaseWithoutConsuming(t *testing.T) {
	vl := NewVecListOf[int](0, 1, 2, 3)
	f := vl.DrainFilter(func(v *int) bool {
		*v++
		return *v%2 == 0
	})
	f.Release()
	f.Release() // idempotent
	assert.Equal(t, []int{1, 3}, vecListToSlice[int](vl))
}

func TestVecListDrainFilter_SelectAllAndNone(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	f := vl.DrainFilter(func(v *int) bool { return true })
	f.Release()
	assert.True(t, vl.Empty())

	vl.AppendValue(1, 2, 3)
	f = vl.DrainFilter(func(v *int) bool { return false })
	_, ok := f.Next()
	assert.False(t, ok)
	f.Release()
	assert.Equal(t, []int{1, 2, 3}, vecListToSlice[int](vl))
}

func TestVecListDrainFilter_NilPredicate(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	f := vl.DrainFilter(nil)
	_, ok := f.Next()
	assert.False(t, ok)
	f.Release()
	assert.Equal(t, int64(3), vl.Len())
}

func TestVecListView_Walk(t *testing.T) {
	vl := NewVecListOf[int](0, 1, 2, 3, 4)
	view, err := vl.View(2)
	require.NoError(t, err)
	v, ok := view.Value()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	require.True(t, view.Next())
	require.True(t, view.Next())
	assert.False(t, view.Next()) // stays at the back
	v, _ = view.Value()
	assert.Equal(t, 4, v)

	for i := 0; i < 4; i++ {
		require.True(t, view.Prev())
	}
	assert.False(t, view.Prev()) // stays at the front
	v, _ = view.Value()
	assert.Equal(t, 0, v)

	_, err = vl.View(5)
	require.True(t, errors.Is(err, ErrVecListIndexOutOfRange))
}

func TestVecListView_StaleAfterMutation(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	view, err := vl.View(0)
	require.NoError(t, err)
	_, ok := vl.PopBack()
	require.True(t, ok)
	require.Panics(t, func() {
		_, _ = view.Value()
	})
}

func TestVecListViewMut_SpliceAroundCursor(t *testing.T) {
	vl := NewVecListOf[int](2)
	vm, err := vl.ViewMut(0)
	require.NoError(t, err)
	vm.InsertBefore(1)
	vm.InsertAfter(3)
	assert.Equal(t, []int{1, 2, 3}, vecListToSlice[int](vl))

	// The cursor's own mutations keep it fresh.
	if p := vm.Ref(); assert.NotNil(t, p) {
		*p = 20
	}
	v, ok := vm.RemoveBefore()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = vm.RemoveAfter()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = vm.RemoveBefore()
	assert.False(t, ok)
	_, ok = vm.RemoveAfter()
	assert.False(t, ok)
	assert.Equal(t, []int{20}, vecListToSlice[int](vl))
}

func TestVecListViewMut_DeleteThrough(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	vm, err := vl.ViewMut(1)
	require.NoError(t, err)

	v, ok := vm.Delete() // cursor lands on the successor
	require.True(t, ok)
	assert.Equal(t, 2, v)
	cur, _ := vm.Value()
	assert.Equal(t, 3, cur)

	v, ok = vm.Delete() // no successor, falls back to the predecessor
	require.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = vm.Delete()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = vm.Delete() // detached
	assert.False(t, ok)
	_, ok = vm.Value()
	assert.False(t, ok)
	assert.Nil(t, vm.Ref())
	assert.True(t, vl.Empty())
}

func TestVecListViewMut_StaleAfterForeignMutation(t *testing.T) {
	vl := NewVecListOf[int](1, 2, 3)
	vm, err := vl.ViewMut(1)
	require.NoError(t, err)
	vl.PushFront(0)
	require.Panics(t, func() {
		vm.InsertAfter(9)
	})
}
