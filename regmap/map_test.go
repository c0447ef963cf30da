package regmap_test

import (
	"encoding/json"
	"testing"
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"

	"github.com/hwkit/volmem"
	"github.com/hwkit/volmem/access"
	"github.com/hwkit/volmem/regmap"
)

func testBank(t *testing.T, backing *[32]byte) *regmap.Map {
	m, err := regmap.New(nil, unsafe.Pointer(&backing[0]), len(backing), []regmap.Register{
		{Name: "ctrl", Offset: 0, Size: 4, Access: access.ReadWrite},
		{Name: "status", Offset: 4, Size: 4, Access: access.ReadOnly},
		{Name: "doorbell", Offset: 8, Size: 2, Access: access.WriteOnly},
		{Name: "id", Offset: 10, Size: 1, Access: access.ReadOnly},
		{Name: "counter", Offset: 16, Size: 8, Access: access.ReadWrite},
	})
	require.NoError(t, err)
	return m
}

func TestNewValidatesLayout(t *testing.T) {
	var backing [32]byte
	base := unsafe.Pointer(&backing[0])

	_, err := regmap.New(nil, nil, 32, nil)
	require.Error(t, err)

	_, err = regmap.New(nil, base, 0, nil)
	require.Error(t, err)

	cases := []struct {
		name string
		reg  regmap.Register
	}{
		{"empty name", regmap.Register{Name: "", Offset: 0, Size: 4}},
		{"bad size", regmap.Register{Name: "r", Offset: 0, Size: 3}},
		{"out of bounds", regmap.Register{Name: "r", Offset: 32, Size: 4}},
		{"negative offset", regmap.Register{Name: "r", Offset: -4, Size: 4}},
		{"misaligned", regmap.Register{Name: "r", Offset: 2, Size: 4}},
	}
	for _, c := range cases {
		_, err := regmap.New(nil, base, 32, []regmap.Register{c.reg})
		require.Error(t, err, c.name)
	}

	_, err = regmap.New(nil, base, 32, []regmap.Register{
		{Name: "dup", Offset: 0, Size: 4, Access: access.ReadWrite},
		{Name: "dup", Offset: 4, Size: 4, Access: access.ReadWrite},
	})
	require.Error(t, err)
}

func TestRegisterValidate(t *testing.T) {
	require.NoError(t, regmap.Register{Name: "ctrl", Offset: 8, Size: 4, Access: access.ReadWrite}.Validate())

	err := regmap.Register{Name: "r", Offset: 0, Size: 6}.Validate()
	require.ErrorIs(t, err, volmem.PowerOfTwoError)

	require.Error(t, regmap.Register{Name: "r", Offset: 0, Size: 16}.Validate())
	require.Error(t, regmap.Register{Name: "r", Offset: -4, Size: 4}.Validate())
	require.Error(t, regmap.Register{Name: "r", Offset: 2, Size: 4}.Validate())
	require.Error(t, regmap.Register{Name: "", Offset: 0, Size: 4}.Validate())
}

func TestGetRoundTrip(t *testing.T) {
	var backing [32]byte
	m := testBank(t, &backing)

	ctrl, err := regmap.Get[uint32](m, "ctrl")
	require.NoError(t, err)
	ctrl.Store(0xCAFE)
	require.EqualValues(t, 0xCAFE, ctrl.Load())

	counter, err := regmap.Get[uint64](m, "counter")
	require.NoError(t, err)
	counter.Update(func(v uint64) uint64 { return v + 2 })
	require.EqualValues(t, 2, counter.Load())
}

func TestGetEnforcesAccess(t *testing.T) {
	var backing [32]byte
	m := testBank(t, &backing)

	// A read-only register never yields a writable handle.
	_, err := regmap.Get[uint32](m, "status")
	require.ErrorIs(t, err, regmap.ErrAccessMode)
	_, err = regmap.GetW[uint32](m, "status")
	require.ErrorIs(t, err, regmap.ErrAccessMode)

	status, err := regmap.GetR[uint32](m, "status")
	require.NoError(t, err)
	backing[4] = 0x7F
	require.EqualValues(t, 0x7F, status.Load())

	// A write-only register never yields a readable handle.
	_, err = regmap.GetR[uint16](m, "doorbell")
	require.ErrorIs(t, err, regmap.ErrAccessMode)

	doorbell, err := regmap.GetW[uint16](m, "doorbell")
	require.NoError(t, err)
	doorbell.Store(0x0101)
	require.EqualValues(t, 0x01, backing[8])
	require.EqualValues(t, 0x01, backing[9])
}

func TestGetEnforcesWidthAndName(t *testing.T) {
	var backing [32]byte
	m := testBank(t, &backing)

	_, err := regmap.Get[uint16](m, "ctrl")
	require.ErrorIs(t, err, regmap.ErrWidthMismatch)

	_, err = regmap.Get[uint32](m, "nope")
	require.ErrorIs(t, err, regmap.ErrUnknownRegister)
}

func TestLookupAndRegisters(t *testing.T) {
	var backing [32]byte
	m := testBank(t, &backing)

	reg, ok := m.Lookup("id")
	require.True(t, ok)
	require.Equal(t, 10, reg.Offset)
	require.Equal(t, 1, reg.Size)
	require.Equal(t, access.ReadOnly, reg.Access)

	_, ok = m.Lookup("nope")
	require.False(t, ok)

	require.Len(t, m.Registers(), 5)
	require.Equal(t, 32, m.Size())
}

func TestPrintDetailedMap(t *testing.T) {
	var backing [32]byte
	m := testBank(t, &backing)

	ctrl, err := regmap.Get[uint32](m, "ctrl")
	require.NoError(t, err)
	ctrl.Store(0xAB)

	writer := jwriter.NewWriter()
	m.PrintDetailedMap(&writer)
	require.NoError(t, writer.Error())

	var dump struct {
		TotalBytes int
		Registers  []struct {
			Name   string
			Offset int
			Size   int
			Access string
			Value  string
		}
	}
	require.NoError(t, json.Unmarshal(writer.Bytes(), &dump))

	require.Equal(t, 32, dump.TotalBytes)
	require.Len(t, dump.Registers, 5)

	require.Equal(t, "ctrl", dump.Registers[0].Name)
	require.Equal(t, "ReadWrite", dump.Registers[0].Access)
	require.Equal(t, "0xab", dump.Registers[0].Value)

	// Write-only registers are never sampled.
	require.Equal(t, "doorbell", dump.Registers[2].Name)
	require.Empty(t, dump.Registers[2].Value)
}
