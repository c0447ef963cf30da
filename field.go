package volmem

import "unsafe"

// Field derives a handle over one field of the composite value behind p.
// offset is the field's byte offset within T and must be the compile-time
// constant produced by unsafe.Offsetof on the field; F must be the field's
// type. The child handle inherits the parent's read-write permission and is
// valid exactly as long as the parent's address is.
//
// The projection is pure address arithmetic. No ordinary reference to the
// composite is ever formed and no data is read, so deriving the handle
// cannot cause the compiler to insert a hidden non-volatile load of the
// whole composite.
//
//	reg := volmem.NewPtr[StatusBlock](base)
//	count := volmem.Field[uint32](reg, unsafe.Offsetof(StatusBlock{}.Count))
func Field[F any, T any](p Ptr[T], offset uintptr) Ptr[F] {
	var parent T
	var field F
	DebugCheckFieldSpan(offset, unsafe.Sizeof(field), unsafe.Sizeof(parent))
	return Ptr[F]{addr: unsafe.Add(p.addr, offset)}
}

// FieldR derives a read-only handle over one field of the composite value
// behind p, preserving the parent's read-only permission. See Field.
func FieldR[F any, T any](p RPtr[T], offset uintptr) RPtr[F] {
	var parent T
	var field F
	DebugCheckFieldSpan(offset, unsafe.Sizeof(field), unsafe.Sizeof(parent))
	return RPtr[F]{addr: unsafe.Add(p.addr, offset)}
}

// FieldW derives a write-only handle over one field of the composite value
// behind p, preserving the parent's write-only permission. See Field.
func FieldW[F any, T any](p WPtr[T], offset uintptr) WPtr[F] {
	var parent T
	var field F
	DebugCheckFieldSpan(offset, unsafe.Sizeof(field), unsafe.Sizeof(parent))
	return WPtr[F]{addr: unsafe.Add(p.addr, offset)}
}
