package volmem

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"

	"github.com/hwkit/volmem/access"
	"github.com/hwkit/volmem/internal/raw"
)

// span is the shared bounds arithmetic under every slice handle kind. All
// range failures are explicit errors wrapping ErrOutOfRange; nothing is
// clamped.
type span struct {
	base   unsafe.Pointer
	n      int
	stride uintptr
}

func (s span) at(i int) (unsafe.Pointer, error) {
	if i < 0 || i >= s.n {
		return nil, cerrors.Wrapf(ErrOutOfRange, "index is %d, length is %d", i, s.n)
	}
	return unsafe.Add(s.base, uintptr(i)*s.stride), nil
}

func (s span) sub(lo, hi int) (span, error) {
	if lo < 0 || hi < lo || hi > s.n {
		return span{}, cerrors.Wrapf(ErrOutOfRange, "range is [%d, %d), length is %d", lo, hi, s.n)
	}
	return span{
		base:   unsafe.Add(s.base, uintptr(lo)*s.stride),
		n:      hi - lo,
		stride: s.stride,
	}, nil
}

func (s span) split(k int) (span, span, error) {
	if k < 0 || k > s.n {
		return span{}, span{}, cerrors.Wrapf(ErrOutOfRange, "split point is %d, length is %d", k, s.n)
	}
	left := span{base: s.base, n: k, stride: s.stride}
	right := span{
		base:   unsafe.Add(s.base, uintptr(k)*s.stride),
		n:      s.n - k,
		stride: s.stride,
	}
	return left, right, nil
}

// Slice is an aliasable read-write handle over a contiguous run of n values
// of type T. Like Ptr it is a cheap value type with no protection against
// concurrent mutable aliasing; SplitAt is the race-free way to give two
// goroutines disjoint regions of one buffer.
type Slice[T any] struct {
	s span
}

// NewSlice wraps a raw address as a read-write handle over n contiguous
// values of type T. The caller attests that the whole range is valid and
// aligned, as with NewPtr.
func NewSlice[T any](base unsafe.Pointer, n int) Slice[T] {
	var zero T
	DebugCheckAligned(base, unsafe.Alignof(zero), "base")
	return Slice[T]{s: span{base: base, n: n, stride: unsafe.Sizeof(zero)}}
}

// FromSlice wraps an ordinary Go slice's backing array. The backing array
// must stay reachable while any derived handle is in use.
func FromSlice[T any](values []T) Slice[T] {
	var zero T
	return Slice[T]{s: span{base: unsafe.Pointer(unsafe.SliceData(values)), n: len(values), stride: unsafe.Sizeof(zero)}}
}

// Len returns the number of elements the handle covers.
func (s Slice[T]) Len() int {
	return s.s.n
}

// Index returns a handle over the single element at position i.
func (s Slice[T]) Index(i int) (Ptr[T], error) {
	addr, err := s.s.at(i)
	if err != nil {
		return Ptr[T]{}, err
	}
	return Ptr[T]{addr: addr}, nil
}

// Slice returns a handle over the elements in [lo, hi).
func (s Slice[T]) Slice(lo, hi int) (Slice[T], error) {
	sub, err := s.s.sub(lo, hi)
	if err != nil {
		return Slice[T]{}, err
	}
	return Slice[T]{s: sub}, nil
}

// SplitAt returns handles over [0, k) and [k, Len()). The two cover
// disjoint memory and together reconstitute the receiver, so each half may
// be mutated by a different goroutine without synchronization.
func (s Slice[T]) SplitAt(k int) (Slice[T], Slice[T], error) {
	left, right, err := s.s.split(k)
	if err != nil {
		return Slice[T]{}, Slice[T]{}, err
	}
	return Slice[T]{s: left}, Slice[T]{s: right}, nil
}

// Each visits every element in index order, passing its position and a
// per-element handle. Element handles are produced lazily; returning an
// error stops the visit and propagates it. Calling Each again restarts from
// index zero.
func (s Slice[T]) Each(visit func(i int, p Ptr[T]) error) error {
	for i := 0; i < s.s.n; i++ {
		err := visit(i, Ptr[T]{addr: unsafe.Add(s.s.base, uintptr(i)*s.s.stride)})
		if err != nil {
			return err
		}
	}
	return nil
}

// Load performs one volatile load of the element at position i.
func (s Slice[T]) Load(i int) (T, error) {
	addr, err := s.s.at(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return raw.Load[T](addr), nil
}

// Store performs one volatile store of v to the element at position i.
func (s Slice[T]) Store(i int, v T) error {
	addr, err := s.s.at(i)
	if err != nil {
		return err
	}
	raw.Store(addr, v)
	return nil
}

// CopyTo reads every element into dst with one volatile load each, in index
// order. dst must have exactly Len() elements; the loads are never coalesced
// into a block copy.
func (s Slice[T]) CopyTo(dst []T) error {
	if len(dst) != s.s.n {
		return cerrors.Wrapf(ErrLengthMismatch, "destination length is %d, handle length is %d", len(dst), s.s.n)
	}
	for i := 0; i < s.s.n; i++ {
		dst[i] = raw.Load[T](unsafe.Add(s.s.base, uintptr(i)*s.s.stride))
	}
	return nil
}

// CopyFrom writes every element of src with one volatile store each, in
// index order. src must have exactly Len() elements.
func (s Slice[T]) CopyFrom(src []T) error {
	if len(src) != s.s.n {
		return cerrors.Wrapf(ErrLengthMismatch, "source length is %d, handle length is %d", len(src), s.s.n)
	}
	for i := 0; i < s.s.n; i++ {
		raw.Store(unsafe.Add(s.s.base, uintptr(i)*s.s.stride), src[i])
	}
	return nil
}

// Fill stores v to every element, one volatile store each, in index order.
func (s Slice[T]) Fill(v T) {
	for i := 0; i < s.s.n; i++ {
		raw.Store(unsafe.Add(s.s.base, uintptr(i)*s.s.stride), v)
	}
}

func (s Slice[T]) Access() access.Access {
	return access.ReadWrite
}

// ReadOnly narrows this handle to a read-only handle over the same range.
func (s Slice[T]) ReadOnly() RSlice[T] {
	return RSlice[T]{s: s.s}
}

// WriteOnly narrows this handle to a write-only handle over the same range.
func (s Slice[T]) WriteOnly() WSlice[T] {
	return WSlice[T]{s: s.s}
}

// RSlice is an aliasable read-only handle over a contiguous run of values.
// It is safe to share across goroutines.
type RSlice[T any] struct {
	s span
}

// NewRSlice wraps a raw address as a read-only handle over n contiguous
// values of type T.
func NewRSlice[T any](base unsafe.Pointer, n int) RSlice[T] {
	var zero T
	DebugCheckAligned(base, unsafe.Alignof(zero), "base")
	return RSlice[T]{s: span{base: base, n: n, stride: unsafe.Sizeof(zero)}}
}

// Len returns the number of elements the handle covers.
func (s RSlice[T]) Len() int {
	return s.s.n
}

// Index returns a read-only handle over the single element at position i.
func (s RSlice[T]) Index(i int) (RPtr[T], error) {
	addr, err := s.s.at(i)
	if err != nil {
		return RPtr[T]{}, err
	}
	return RPtr[T]{addr: addr}, nil
}

// Slice returns a read-only handle over the elements in [lo, hi).
func (s RSlice[T]) Slice(lo, hi int) (RSlice[T], error) {
	sub, err := s.s.sub(lo, hi)
	if err != nil {
		return RSlice[T]{}, err
	}
	return RSlice[T]{s: sub}, nil
}

// SplitAt returns read-only handles over [0, k) and [k, Len()).
func (s RSlice[T]) SplitAt(k int) (RSlice[T], RSlice[T], error) {
	left, right, err := s.s.split(k)
	if err != nil {
		return RSlice[T]{}, RSlice[T]{}, err
	}
	return RSlice[T]{s: left}, RSlice[T]{s: right}, nil
}

// Each visits every element in index order with a read-only handle.
func (s RSlice[T]) Each(visit func(i int, p RPtr[T]) error) error {
	for i := 0; i < s.s.n; i++ {
		err := visit(i, RPtr[T]{addr: unsafe.Add(s.s.base, uintptr(i)*s.s.stride)})
		if err != nil {
			return err
		}
	}
	return nil
}

// Load performs one volatile load of the element at position i.
func (s RSlice[T]) Load(i int) (T, error) {
	addr, err := s.s.at(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return raw.Load[T](addr), nil
}

// CopyTo reads every element into dst with one volatile load each. dst must
// have exactly Len() elements.
func (s RSlice[T]) CopyTo(dst []T) error {
	if len(dst) != s.s.n {
		return cerrors.Wrapf(ErrLengthMismatch, "destination length is %d, handle length is %d", len(dst), s.s.n)
	}
	for i := 0; i < s.s.n; i++ {
		dst[i] = raw.Load[T](unsafe.Add(s.s.base, uintptr(i)*s.s.stride))
	}
	return nil
}

func (s RSlice[T]) Access() access.Access {
	return access.ReadOnly
}

// WSlice is an aliasable write-only handle over a contiguous run of values.
type WSlice[T any] struct {
	s span
}

// NewWSlice wraps a raw address as a write-only handle over n contiguous
// values of type T.
func NewWSlice[T any](base unsafe.Pointer, n int) WSlice[T] {
	var zero T
	DebugCheckAligned(base, unsafe.Alignof(zero), "base")
	return WSlice[T]{s: span{base: base, n: n, stride: unsafe.Sizeof(zero)}}
}

// Len returns the number of elements the handle covers.
func (s WSlice[T]) Len() int {
	return s.s.n
}

// Index returns a write-only handle over the single element at position i.
func (s WSlice[T]) Index(i int) (WPtr[T], error) {
	addr, err := s.s.at(i)
	if err != nil {
		return WPtr[T]{}, err
	}
	return WPtr[T]{addr: addr}, nil
}

// Slice returns a write-only handle over the elements in [lo, hi).
func (s WSlice[T]) Slice(lo, hi int) (WSlice[T], error) {
	sub, err := s.s.sub(lo, hi)
	if err != nil {
		return WSlice[T]{}, err
	}
	return WSlice[T]{s: sub}, nil
}

// SplitAt returns write-only handles over [0, k) and [k, Len()).
func (s WSlice[T]) SplitAt(k int) (WSlice[T], WSlice[T], error) {
	left, right, err := s.s.split(k)
	if err != nil {
		return WSlice[T]{}, WSlice[T]{}, err
	}
	return WSlice[T]{s: left}, WSlice[T]{s: right}, nil
}

// Each visits every element in index order with a write-only handle.
func (s WSlice[T]) Each(visit func(i int, p WPtr[T]) error) error {
	for i := 0; i < s.s.n; i++ {
		err := visit(i, WPtr[T]{addr: unsafe.Add(s.s.base, uintptr(i)*s.s.stride)})
		if err != nil {
			return err
		}
	}
	return nil
}

// Store performs one volatile store of v to the element at position i.
func (s WSlice[T]) Store(i int, v T) error {
	addr, err := s.s.at(i)
	if err != nil {
		return err
	}
	raw.Store(addr, v)
	return nil
}

// CopyFrom writes every element of src with one volatile store each. src
// must have exactly Len() elements.
func (s WSlice[T]) CopyFrom(src []T) error {
	if len(src) != s.s.n {
		return cerrors.Wrapf(ErrLengthMismatch, "source length is %d, handle length is %d", len(src), s.s.n)
	}
	for i := 0; i < s.s.n; i++ {
		raw.Store(unsafe.Add(s.s.base, uintptr(i)*s.s.stride), src[i])
	}
	return nil
}

// Fill stores v to every element, one volatile store each, in index order.
func (s WSlice[T]) Fill(v T) {
	for i := 0; i < s.s.n; i++ {
		raw.Store(unsafe.Add(s.s.base, uintptr(i)*s.s.stride), v)
	}
}

func (s WSlice[T]) Access() access.Access {
	return access.WriteOnly
}
