package volmem

import (
	"unsafe"

	"github.com/hwkit/volmem/internal/raw"
)

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Cell owns storage for a single value of type T and performs all access to
// it volatilely. It is the owning counterpart to the address-wrapping
// handles: useful for values shared with hardware or with code outside the
// Go scheduler's knowledge, where the storage itself lives in ordinary Go
// memory.
//
// A Cell must not be copied after first use; go vet reports copies.
type Cell[T any] struct {
	noCopy noCopy

	value T
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	c := &Cell[T]{}
	c.Store(v)
	return c
}

// Load performs one volatile load of the contained value.
func (c *Cell[T]) Load() T {
	return raw.Load[T](unsafe.Pointer(&c.value))
}

// Store performs one volatile store of v into the cell.
func (c *Cell[T]) Store(v T) {
	raw.Store(unsafe.Pointer(&c.value), v)
}

// Update performs one volatile load, applies f, and performs one volatile
// store of the result. Two discrete transactions, never atomic.
func (c *Cell[T]) Update(f func(T) T) {
	c.Store(f(c.Load()))
}

// Ptr returns a read-write aliasable handle over the cell's storage. The
// handle is valid only while the cell is reachable.
func (c *Cell[T]) Ptr() Ptr[T] {
	return Ptr[T]{addr: unsafe.Pointer(&c.value)}
}

// ReadPtr returns a read-only aliasable handle over the cell's storage.
func (c *Cell[T]) ReadPtr() RPtr[T] {
	return RPtr[T]{addr: unsafe.Pointer(&c.value)}
}
