package volmem

import (
	"unsafe"

	"github.com/hwkit/volmem/access"
	"github.com/hwkit/volmem/internal/raw"
)

// Ptr is an aliasable read-write handle bound to a single value of type T at
// a raw address. It is a one-word value type and may be copied freely; every
// copy denotes the same address, so a store through one copy is observable
// through any other. Copies used concurrently for mutation will race unless
// the caller synchronizes externally - for race-free cross-goroutine
// transfer of writable access, use Ref instead.
type Ptr[T any] struct {
	addr unsafe.Pointer
}

// NewPtr wraps a raw address as a read-write handle over a T.
//
// The caller attests that addr is non-nil, aligned for T, and remains valid
// and in bounds for as long as any handle derived from it is in use. None of
// this can be verified here; builds with the debug_volmem tag check
// alignment at construction.
func NewPtr[T any](addr unsafe.Pointer) Ptr[T] {
	var zero T
	DebugCheckAligned(addr, unsafe.Alignof(zero), "addr")
	return Ptr[T]{addr: addr}
}

// Load performs one volatile load of the bound value and returns a copy.
// Loads are never elided or merged, but carry no atomicity: a concurrent
// store to a multi-word T may be observed torn.
func (p Ptr[T]) Load() T {
	return raw.Load[T](p.addr)
}

// Store performs one volatile store of v to the bound address. Stores are
// never elided or merged, even when the value appears dead.
func (p Ptr[T]) Store(v T) {
	raw.Store(p.addr, v)
}

// Update performs one volatile load, applies f to the value, and performs
// one volatile store of the result. These are two discrete transactions,
// not an atomic read-modify-write: a store issued between them through an
// aliased handle is overwritten.
func (p Ptr[T]) Update(f func(T) T) {
	p.Store(f(p.Load()))
}

// Addr returns the bound address. Accessing the value through the returned
// pointer directly is an ordinary, non-volatile access and defeats the
// purpose of the handle; this accessor exists for address arithmetic and
// diagnostics.
func (p Ptr[T]) Addr() unsafe.Pointer {
	return p.addr
}

func (p Ptr[T]) Access() access.Access {
	return access.ReadWrite
}

// ReadOnly narrows this handle to a read-only handle over the same address.
func (p Ptr[T]) ReadOnly() RPtr[T] {
	return RPtr[T]{addr: p.addr}
}

// WriteOnly narrows this handle to a write-only handle over the same
// address.
func (p Ptr[T]) WriteOnly() WPtr[T] {
	return WPtr[T]{addr: p.addr}
}

// RPtr is an aliasable read-only handle bound to a single value of type T.
// It has no store operation, so writing through it does not compile.
// Read-only handles are safe to copy across goroutine boundaries: concurrent
// volatile loads cannot race.
type RPtr[T any] struct {
	addr unsafe.Pointer
}

// NewRPtr wraps a raw address as a read-only handle over a T. The caller
// attests validity and alignment, as with NewPtr.
func NewRPtr[T any](addr unsafe.Pointer) RPtr[T] {
	var zero T
	DebugCheckAligned(addr, unsafe.Alignof(zero), "addr")
	return RPtr[T]{addr: addr}
}

// Load performs one volatile load of the bound value and returns a copy.
func (p RPtr[T]) Load() T {
	return raw.Load[T](p.addr)
}

// Addr returns the bound address.
func (p RPtr[T]) Addr() unsafe.Pointer {
	return p.addr
}

func (p RPtr[T]) Access() access.Access {
	return access.ReadOnly
}

// WPtr is an aliasable write-only handle bound to a single value of type T.
// It has no load operation, so reading through it does not compile. This
// matches registers whose reads have side effects or undefined contents.
type WPtr[T any] struct {
	addr unsafe.Pointer
}

// NewWPtr wraps a raw address as a write-only handle over a T. The caller
// attests validity and alignment, as with NewPtr.
func NewWPtr[T any](addr unsafe.Pointer) WPtr[T] {
	var zero T
	DebugCheckAligned(addr, unsafe.Alignof(zero), "addr")
	return WPtr[T]{addr: addr}
}

// Store performs one volatile store of v to the bound address.
func (p WPtr[T]) Store(v T) {
	raw.Store(p.addr, v)
}

// Addr returns the bound address.
func (p WPtr[T]) Addr() unsafe.Pointer {
	return p.addr
}

func (p WPtr[T]) Access() access.Access {
	return access.WriteOnly
}
