//go:build debug_volmem

package volmem

import (
	"fmt"
	"unsafe"
)

// DebugCheckAligned verifies that addr is non-nil and a multiple of align,
// and panics otherwise. This method no-ops unless the debug_volmem build
// tag is present.
func DebugCheckAligned(addr unsafe.Pointer, align uintptr, name string) {
	DebugCheckPow2(align, "alignment")
	if addr == nil {
		panic(fmt.Sprintf("volmem: %s is nil", name))
	}
	if !Aligned(uintptr(addr), align) {
		panic(fmt.Sprintf("volmem: %s %#x is not aligned to %d bytes", name, uintptr(addr), align))
	}
}

// DebugCheckFieldSpan verifies that a projected field at offset with the
// given size lies entirely within its parent value, and panics otherwise.
// This method no-ops unless the debug_volmem build tag is present.
func DebugCheckFieldSpan(offset, fieldSize, parentSize uintptr) {
	if offset+fieldSize > parentSize {
		panic(fmt.Sprintf("volmem: field span [%d, %d) falls outside parent of size %d", offset, offset+fieldSize, parentSize))
	}
}

// DebugValidate will call Validate on the provided object and panics if any
// errors are returned. This method no-ops unless the debug_volmem build tag
// is present
func DebugValidate(validatable Validatable) {
	err := validatable.Validate()
	if err != nil {
		panic(err)
	}
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_volmem build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
	err := CheckPow2(value, name)
	if err != nil {
		panic(err)
	}
}
