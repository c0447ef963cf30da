package access

// Access describes which primitive operations a handle is permitted to
// perform against its bound address. The static half of the permission model
// lives in the handle types themselves (a read-only handle has no store
// method at all), so this value exists for components that need to treat
// permissions as data, such as register map declarations, and for handles to
// report their permission at runtime.
//
// Permissions only ever narrow: a ReadWrite handle can be restricted to
// ReadOnly or WriteOnly, but no operation anywhere in this module widens a
// permission.
type Access uint8

const (
	// ReadWrite permits both volatile loads and volatile stores.
	ReadWrite Access = iota
	// ReadOnly permits volatile loads only. Read-only handles are safe to
	// share across goroutines, since concurrent volatile reads cannot race.
	ReadOnly
	// WriteOnly permits volatile stores only. This matches hardware
	// registers whose reads have side effects or undefined results.
	WriteOnly
)

// CanRead reports whether a handle with this permission may perform
// volatile loads.
func (a Access) CanRead() bool {
	return a == ReadWrite || a == ReadOnly
}

// CanWrite reports whether a handle with this permission may perform
// volatile stores.
func (a Access) CanWrite() bool {
	return a == ReadWrite || a == WriteOnly
}

func (a Access) String() string {
	switch a {
	case ReadWrite:
		return "ReadWrite"
	case ReadOnly:
		return "ReadOnly"
	case WriteOnly:
		return "WriteOnly"
	}
	return "Unknown"
}
