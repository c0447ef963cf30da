//go:build !debug_volmem

package volmem

import "unsafe"

// DebugCheckAligned verifies that addr is non-nil and a multiple of align,
// and panics otherwise. This method no-ops unless the debug_volmem build
// tag is present.
func DebugCheckAligned(addr unsafe.Pointer, align uintptr, name string) {
}

// DebugCheckFieldSpan verifies that a projected field at offset with the
// given size lies entirely within its parent value, and panics otherwise.
// This method no-ops unless the debug_volmem build tag is present.
func DebugCheckFieldSpan(offset, fieldSize, parentSize uintptr) {
}

// DebugValidate will call Validate on the provided object and panics if any
// errors are returned. This method no-ops unless the debug_volmem build tag
// is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_volmem build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}
