// Package regmap provides declarative register banks: named, typed,
// permission-tagged windows into a caller-supplied region of device memory.
// A Map validates the declared layout once at construction and then mints
// volmem handles whose permission and width are checked against the
// declaration, so a read-only status register can never produce a writable
// handle.
package regmap

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"

	"github.com/hwkit/volmem"
	"github.com/hwkit/volmem/access"
	"github.com/hwkit/volmem/internal/raw"
)

// Register declares one register within a bank.
type Register struct {
	// Name identifies the register within its Map. Must be unique and
	// non-empty.
	Name string
	// Offset is the register's byte offset from the bank's base address.
	Offset int
	// Size is the register's width in bytes: 1, 2, 4, or 8. Offset must be
	// a multiple of Size (natural alignment).
	Size int
	// Access declares which operations the hardware supports for this
	// register. Handles minted for the register never exceed it.
	Access access.Access
}

// Validate checks the declaration's internal consistency: a non-empty name,
// a power-of-two size between 1 and 8 bytes, and an offset naturally aligned
// to that size. Placement within a bank (bounds, name uniqueness) is checked
// by New.
func (r Register) Validate() error {
	if r.Name == "" {
		return errors.Newf("register at offset %d has an empty name", r.Offset)
	}
	if err := volmem.CheckPow2(r.Size, "register size"); err != nil {
		return errors.Wrapf(err, "register %q", r.Name)
	}
	if r.Size < 1 || r.Size > 8 {
		return errors.Newf("register %q has size %d, must be 1, 2, 4, or 8", r.Name, r.Size)
	}
	if r.Offset < 0 {
		return errors.Newf("register %q has negative offset %d", r.Name, r.Offset)
	}
	if r.Offset%r.Size != 0 {
		return errors.Newf("register %q at offset %d is not aligned to its size %d", r.Name, r.Offset, r.Size)
	}
	return nil
}

// Map is an immutable register bank over a raw base address. All fields are
// fixed at construction, so a Map may be used from multiple goroutines; the
// race-safety of the access to the registers themselves is governed by the
// volmem handle rules.
type Map struct {
	logger *slog.Logger

	base   unsafe.Pointer
	size   int
	regs   []Register
	byName *swiss.Map[string, Register]
}

// New builds a register bank over size bytes at base. Every declared
// register must lie fully inside the bank, be naturally aligned, have a
// power-of-two size of at most 8 bytes, and carry a unique non-empty name.
// The caller attests the validity of the underlying memory, as with
// volmem.NewPtr.
func New(logger *slog.Logger, base unsafe.Pointer, size int, regs []Register) (*Map, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if base == nil {
		return nil, errors.New("register map base address is nil")
	}
	if size <= 0 {
		return nil, errors.Newf("register map size %d is not positive", size)
	}

	byName := swiss.NewMap[string, Register](uint32(len(regs)))
	for _, reg := range regs {
		if err := reg.Validate(); err != nil {
			return nil, err
		}
		if _, ok := byName.Get(reg.Name); ok {
			return nil, errors.Newf("register name %q declared twice", reg.Name)
		}
		if reg.Offset+reg.Size > size {
			return nil, errors.Newf("register %q spans [%d, %d), outside the %d-byte bank", reg.Name, reg.Offset, reg.Offset+reg.Size, size)
		}
		byName.Put(reg.Name, reg)
	}

	logger.Debug("regmap: created register bank",
		slog.Int("Registers", len(regs)),
		slog.Int("Size", size))

	return &Map{
		logger: logger,
		base:   base,
		size:   size,
		regs:   append([]Register(nil), regs...),
		byName: byName,
	}, nil
}

// Size returns the bank's extent in bytes.
func (m *Map) Size() int {
	return m.size
}

// Lookup returns the declaration for name, if present.
func (m *Map) Lookup(name string) (Register, bool) {
	return m.byName.Get(name)
}

// Registers returns a copy of the declarations in declaration order.
func (m *Map) Registers() []Register {
	return append([]Register(nil), m.regs...)
}

// Word is the set of value types a register handle may be minted as.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func find[T Word](m *Map, name string) (Register, unsafe.Pointer, error) {
	reg, ok := m.byName.Get(name)
	if !ok {
		return Register{}, nil, errors.Wrapf(ErrUnknownRegister, "name is %q", name)
	}
	volmem.DebugValidate(reg)
	var zero T
	if int(unsafe.Sizeof(zero)) != reg.Size {
		return Register{}, nil, errors.Wrapf(ErrWidthMismatch, "register %q is %d bytes, requested type is %d bytes", name, reg.Size, unsafe.Sizeof(zero))
	}
	return reg, unsafe.Add(m.base, reg.Offset), nil
}

// Get mints a read-write handle for the named register. The register must
// be declared ReadWrite; narrower registers reject the request with
// ErrAccessMode, which keeps permission widening impossible.
func Get[T Word](m *Map, name string) (volmem.Ptr[T], error) {
	reg, addr, err := find[T](m, name)
	if err != nil {
		return volmem.Ptr[T]{}, err
	}
	if reg.Access != access.ReadWrite {
		return volmem.Ptr[T]{}, errors.Wrapf(ErrAccessMode, "register %q is %s, requested ReadWrite", name, reg.Access)
	}
	return volmem.NewPtr[T](addr), nil
}

// GetR mints a read-only handle for the named register. Any readable
// register qualifies.
func GetR[T Word](m *Map, name string) (volmem.RPtr[T], error) {
	reg, addr, err := find[T](m, name)
	if err != nil {
		return volmem.RPtr[T]{}, err
	}
	if !reg.Access.CanRead() {
		return volmem.RPtr[T]{}, errors.Wrapf(ErrAccessMode, "register %q is %s, requested read access", name, reg.Access)
	}
	return volmem.NewRPtr[T](addr), nil
}

// GetW mints a write-only handle for the named register. Any writable
// register qualifies.
func GetW[T Word](m *Map, name string) (volmem.WPtr[T], error) {
	reg, addr, err := find[T](m, name)
	if err != nil {
		return volmem.WPtr[T]{}, err
	}
	if !reg.Access.CanWrite() {
		return volmem.WPtr[T]{}, errors.Wrapf(ErrAccessMode, "register %q is %s, requested write access", name, reg.Access)
	}
	return volmem.NewWPtr[T](addr), nil
}

// PrintDetailedMap populates a json object with the bank's layout and, for
// readable registers, a current value sampled with one volatile load. This
// is a diagnostic aid; reading registers with read side effects through it
// has those side effects.
func (m *Map) PrintDetailedMap(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	objState.Name("TotalBytes").Int(m.size)

	arrayState := objState.Name("Registers").Array()
	defer arrayState.End()

	for _, reg := range m.regs {
		obj := arrayState.Object()

		obj.Name("Name").String(reg.Name)
		obj.Name("Offset").Int(reg.Offset)
		obj.Name("Size").Int(reg.Size)
		obj.Name("Access").String(reg.Access.String())

		if reg.Access.CanRead() {
			obj.Name("Value").String(fmt.Sprintf("%#x", m.loadWord(reg)))
		}

		obj.End()
	}
}

// BuildStatsString returns the PrintDetailedMap output as a JSON string.
func (m *Map) BuildStatsString() string {
	writer := jwriter.NewWriter()
	m.PrintDetailedMap(&writer)
	return string(writer.Bytes())
}

// loadWord samples a readable register with one volatile load of its
// declared width.
func (m *Map) loadWord(reg Register) uint64 {
	addr := unsafe.Add(m.base, reg.Offset)
	switch reg.Size {
	case 1:
		return uint64(raw.Load8(addr))
	case 2:
		return uint64(raw.Load16(addr))
	case 4:
		return uint64(raw.Load32(addr))
	case 8:
		return raw.Load64(addr)
	}
	panic(fmt.Sprintf("regmap: register %q has invalid size %d", reg.Name, reg.Size))
}
