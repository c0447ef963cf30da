package volmem

import (
	"unsafe"

	"github.com/hwkit/volmem/access"
)

// SliceRef is an exclusive read-write handle over a contiguous run of
// values. It follows the same ownership discipline as Ref: one live
// exclusive handle per range, transferable across goroutines, borrows
// scoped. SplitAt consumes the handle and yields exclusive handles over the
// two disjoint halves, which is the mechanism for handing each half of a
// buffer to a different goroutine with no possibility of a race.
type SliceRef[T any] struct {
	s span
}

// NewSliceRef wraps a raw address as an exclusive handle over n contiguous
// values of type T. The caller attests validity and alignment and that no
// other exclusive handle covers any part of the range.
func NewSliceRef[T any](base unsafe.Pointer, n int) *SliceRef[T] {
	var zero T
	DebugCheckAligned(base, unsafe.Alignof(zero), "base")
	claimRange(uintptr(base), uintptr(base)+uintptr(n)*unsafe.Sizeof(zero))
	return &SliceRef[T]{s: span{base: base, n: n, stride: unsafe.Sizeof(zero)}}
}

// Len returns the number of elements the handle covers.
func (r *SliceRef[T]) Len() int {
	r.check()
	return r.s.n
}

// Borrow produces a temporary read-only aliasable handle over the whole
// range. It must not be retained past the scope that borrowed it.
func (r *SliceRef[T]) Borrow() RSlice[T] {
	r.check()
	return RSlice[T]{s: r.s}
}

// BorrowMut produces a temporary read-write aliasable handle over the whole
// range. Only one mutable borrow may be outstanding at a time.
func (r *SliceRef[T]) BorrowMut() Slice[T] {
	r.check()
	return Slice[T]{s: r.s}
}

// SplitAt consumes the handle and returns exclusive handles over [0, k) and
// [k, Len()). The halves cover disjoint memory and together reconstitute
// the original range.
func (r *SliceRef[T]) SplitAt(k int) (*SliceRef[T], *SliceRef[T], error) {
	r.check()
	left, right, err := r.s.split(k)
	if err != nil {
		return nil, nil, err
	}
	r.release()
	claimRange(uintptr(left.base), uintptr(left.base)+uintptr(left.n)*left.stride)
	claimRange(uintptr(right.base), uintptr(right.base)+uintptr(right.n)*right.stride)
	return &SliceRef[T]{s: left}, &SliceRef[T]{s: right}, nil
}

// IntoSlice consumes the exclusive handle and yields the freely-duplicable
// aliasable form, permanently forfeiting uniqueness.
func (r *SliceRef[T]) IntoSlice() Slice[T] {
	r.check()
	s := Slice[T]{s: r.s}
	r.release()
	return s
}

// Release gives up the exclusive claim without producing a successor
// handle. Subsequent use of this SliceRef panics.
func (r *SliceRef[T]) Release() {
	r.check()
	r.release()
}

func (r *SliceRef[T]) Access() access.Access {
	return access.ReadWrite
}

func (r *SliceRef[T]) check() {
	if r.s.base == nil {
		panic("volmem: use of released exclusive handle")
	}
}

func (r *SliceRef[T]) release() {
	releaseRange(uintptr(r.s.base), uintptr(r.s.base)+uintptr(r.s.n)*r.s.stride)
	r.s = span{}
}
