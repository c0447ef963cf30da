// Package raw contains the primitive volatile load and store operations that
// every handle type in this module composes from.
//
// Go has no volatile qualifier, so the guarantee that an access is neither
// elided nor merged is obtained by routing every access through a
// //go:noinline function: the call is opaque to the optimizer, which forces
// exactly one real memory transaction per call, in program order relative to
// other such calls. This mirrors how memory-mapped register access is done
// in Go hardware code.
//
// No atomicity is provided. A Load or Store of a multi-word type is a plain
// typed copy and may be observed torn by a concurrent writer or reader.
package raw

import "unsafe"

// Load performs one volatile load of a T at addr.
//
//go:noinline
func Load[T any](addr unsafe.Pointer) T {
	return *(*T)(addr)
}

// Store performs one volatile store of v at addr.
//
//go:noinline
func Store[T any](addr unsafe.Pointer, v T) {
	*(*T)(addr) = v
}

// Width-fixed variants for callers that dispatch on a byte width known only
// at runtime, such as register map dumps.

//go:noinline
//go:nosplit
func Load8(addr unsafe.Pointer) uint8 { return *(*uint8)(addr) }

//go:noinline
//go:nosplit
func Load16(addr unsafe.Pointer) uint16 { return *(*uint16)(addr) }

//go:noinline
//go:nosplit
func Load32(addr unsafe.Pointer) uint32 { return *(*uint32)(addr) }

//go:noinline
//go:nosplit
func Load64(addr unsafe.Pointer) uint64 { return *(*uint64)(addr) }

//go:noinline
//go:nosplit
func Store8(addr unsafe.Pointer, v uint8) { *(*uint8)(addr) = v }

//go:noinline
//go:nosplit
func Store16(addr unsafe.Pointer, v uint16) { *(*uint16)(addr) = v }

//go:noinline
//go:nosplit
func Store32(addr unsafe.Pointer, v uint32) { *(*uint32)(addr) = v }

//go:noinline
//go:nosplit
func Store64(addr unsafe.Pointer, v uint64) { *(*uint64)(addr) = v }
