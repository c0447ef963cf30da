package volmem

import (
	"unsafe"

	"github.com/hwkit/volmem/access"
)

// Ref is an exclusive read-write handle bound to a single value of type T.
// At most one exclusive handle may exist per address at a time; because it
// is unique, a Ref may be handed to another goroutine without synchronization
// whenever T itself is transferable. The uniqueness invariant cannot be
// tracked statically in Go, so it is a documented discipline: construct one
// Ref per address, and return every borrowed handle before the next borrow.
// Builds with the debug_volmem tag panic when two live exclusive handles
// claim overlapping memory.
//
// A Ref must not be copied; use the pointer returned by NewRef. Once
// released through IntoPtr or Release, any further use panics.
type Ref[T any] struct {
	addr unsafe.Pointer
}

// NewRef wraps a raw address as an exclusive read-write handle over a T.
// The caller attests validity and alignment and that no other exclusive
// handle exists for this address.
func NewRef[T any](addr unsafe.Pointer) *Ref[T] {
	var zero T
	DebugCheckAligned(addr, unsafe.Alignof(zero), "addr")
	claimRange(uintptr(addr), uintptr(addr)+unsafe.Sizeof(zero))
	return &Ref[T]{addr: addr}
}

// Borrow produces a temporary read-only aliasable handle. The handle must
// not be retained past the scope that borrowed it.
func (r *Ref[T]) Borrow() RPtr[T] {
	r.check()
	return RPtr[T]{addr: r.addr}
}

// BorrowMut produces a temporary read-write aliasable handle. Only one
// mutable borrow may be outstanding at a time, and it must not be retained
// past the scope that borrowed it.
func (r *Ref[T]) BorrowMut() Ptr[T] {
	r.check()
	return Ptr[T]{addr: r.addr}
}

// IntoPtr consumes the exclusive handle and yields the freely-duplicable
// aliasable form, permanently forfeiting uniqueness. After this call the
// caller is responsible for ensuring no new exclusive handle is ever
// constructed for the same address.
func (r *Ref[T]) IntoPtr() Ptr[T] {
	r.check()
	p := Ptr[T]{addr: r.addr}
	r.release()
	return p
}

// ReadOnly consumes the exclusive handle and yields a read-only exclusive
// handle over the same address.
func (r *Ref[T]) ReadOnly() *RRef[T] {
	r.check()
	next := &RRef[T]{addr: r.addr}
	r.addr = nil
	return next
}

// WriteOnly consumes the exclusive handle and yields a write-only exclusive
// handle over the same address.
func (r *Ref[T]) WriteOnly() *WRef[T] {
	r.check()
	next := &WRef[T]{addr: r.addr}
	r.addr = nil
	return next
}

// Release gives up the exclusive claim without producing a successor
// handle. Subsequent use of this Ref panics.
func (r *Ref[T]) Release() {
	r.check()
	r.release()
}

func (r *Ref[T]) Access() access.Access {
	return access.ReadWrite
}

func (r *Ref[T]) check() {
	if r.addr == nil {
		panic("volmem: use of released exclusive handle")
	}
}

func (r *Ref[T]) release() {
	var zero T
	releaseRange(uintptr(r.addr), uintptr(r.addr)+unsafe.Sizeof(zero))
	r.addr = nil
}

// RRef is an exclusive read-only handle over a single value of type T. It
// follows the same ownership discipline as Ref.
type RRef[T any] struct {
	addr unsafe.Pointer
}

// NewRRef wraps a raw address as an exclusive read-only handle over a T.
func NewRRef[T any](addr unsafe.Pointer) *RRef[T] {
	var zero T
	DebugCheckAligned(addr, unsafe.Alignof(zero), "addr")
	claimRange(uintptr(addr), uintptr(addr)+unsafe.Sizeof(zero))
	return &RRef[T]{addr: addr}
}

// Borrow produces a temporary read-only aliasable handle.
func (r *RRef[T]) Borrow() RPtr[T] {
	r.check()
	return RPtr[T]{addr: r.addr}
}

// IntoPtr consumes the exclusive handle and yields the aliasable read-only
// form, permanently forfeiting uniqueness.
func (r *RRef[T]) IntoPtr() RPtr[T] {
	r.check()
	p := RPtr[T]{addr: r.addr}
	r.release()
	return p
}

// Release gives up the exclusive claim. Subsequent use of this RRef panics.
func (r *RRef[T]) Release() {
	r.check()
	r.release()
}

func (r *RRef[T]) Access() access.Access {
	return access.ReadOnly
}

func (r *RRef[T]) check() {
	if r.addr == nil {
		panic("volmem: use of released exclusive handle")
	}
}

func (r *RRef[T]) release() {
	var zero T
	releaseRange(uintptr(r.addr), uintptr(r.addr)+unsafe.Sizeof(zero))
	r.addr = nil
}

// WRef is an exclusive write-only handle over a single value of type T. It
// follows the same ownership discipline as Ref.
type WRef[T any] struct {
	addr unsafe.Pointer
}

// NewWRef wraps a raw address as an exclusive write-only handle over a T.
func NewWRef[T any](addr unsafe.Pointer) *WRef[T] {
	var zero T
	DebugCheckAligned(addr, unsafe.Alignof(zero), "addr")
	claimRange(uintptr(addr), uintptr(addr)+unsafe.Sizeof(zero))
	return &WRef[T]{addr: addr}
}

// BorrowMut produces a temporary write-only aliasable handle. Only one may
// be outstanding at a time.
func (r *WRef[T]) BorrowMut() WPtr[T] {
	r.check()
	return WPtr[T]{addr: r.addr}
}

// IntoPtr consumes the exclusive handle and yields the aliasable write-only
// form, permanently forfeiting uniqueness.
func (r *WRef[T]) IntoPtr() WPtr[T] {
	r.check()
	p := WPtr[T]{addr: r.addr}
	r.release()
	return p
}

// Release gives up the exclusive claim. Subsequent use of this WRef panics.
func (r *WRef[T]) Release() {
	r.check()
	r.release()
}

func (r *WRef[T]) Access() access.Access {
	return access.WriteOnly
}

func (r *WRef[T]) check() {
	if r.addr == nil {
		panic("volmem: use of released exclusive handle")
	}
}

func (r *WRef[T]) release() {
	var zero T
	releaseRange(uintptr(r.addr), uintptr(r.addr)+unsafe.Sizeof(zero))
	r.addr = nil
}
