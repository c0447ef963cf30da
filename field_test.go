package volmem_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/hwkit/volmem"
)

// statusBlock mimics the layout of a small device register block.
type statusBlock struct {
	Command uint32
	Status  uint16
	Flags   uint8
	_       uint8
	Counter uint64
}

func TestFieldAddresses(t *testing.T) {
	var block statusBlock
	p := volmem.NewPtr[statusBlock](unsafe.Pointer(&block))

	command := volmem.Field[uint32](p, unsafe.Offsetof(statusBlock{}.Command))
	status := volmem.Field[uint16](p, unsafe.Offsetof(statusBlock{}.Status))
	flags := volmem.Field[uint8](p, unsafe.Offsetof(statusBlock{}.Flags))
	counter := volmem.Field[uint64](p, unsafe.Offsetof(statusBlock{}.Counter))

	base := uintptr(p.Addr())
	require.Equal(t, base+unsafe.Offsetof(statusBlock{}.Command), uintptr(command.Addr()))
	require.Equal(t, base+unsafe.Offsetof(statusBlock{}.Status), uintptr(status.Addr()))
	require.Equal(t, base+unsafe.Offsetof(statusBlock{}.Flags), uintptr(flags.Addr()))
	require.Equal(t, base+unsafe.Offsetof(statusBlock{}.Counter), uintptr(counter.Addr()))
}

func TestFieldWriteThrough(t *testing.T) {
	var block statusBlock
	p := volmem.NewPtr[statusBlock](unsafe.Pointer(&block))

	volmem.Field[uint32](p, unsafe.Offsetof(statusBlock{}.Command)).Store(0x1001)
	volmem.Field[uint16](p, unsafe.Offsetof(statusBlock{}.Status)).Store(0xBEEF)
	volmem.Field[uint64](p, unsafe.Offsetof(statusBlock{}.Counter)).Update(func(v uint64) uint64 { return v + 3 })

	require.EqualValues(t, 0x1001, block.Command)
	require.EqualValues(t, 0xBEEF, block.Status)
	require.EqualValues(t, 3, block.Counter)

	// The whole composite is still loadable through the parent handle.
	got := p.Load()
	require.EqualValues(t, 0x1001, got.Command)
}

func TestFieldPreservesPermission(t *testing.T) {
	block := statusBlock{Status: 0x77}
	r := volmem.NewRPtr[statusBlock](unsafe.Pointer(&block))

	status := volmem.FieldR[uint16](r, unsafe.Offsetof(statusBlock{}.Status))
	require.EqualValues(t, 0x77, status.Load())

	w := volmem.NewWPtr[statusBlock](unsafe.Pointer(&block))
	flags := volmem.FieldW[uint8](w, unsafe.Offsetof(statusBlock{}.Flags))
	flags.Store(0x3)
	require.EqualValues(t, 0x3, block.Flags)
}
