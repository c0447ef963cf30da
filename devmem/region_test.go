//go:build linux

package devmem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hwkit/volmem"
	"github.com/hwkit/volmem/devmem"
)

const regionSize = 4096

func tempBacking(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backing")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(regionSize))
	require.NoError(t, f.Close())
	return path
}

func TestOpenWriteRead(t *testing.T) {
	path := tempBacking(t)

	region, err := devmem.Open(nil, path, 0, regionSize, devmem.Options{})
	require.NoError(t, err)
	defer region.Close()

	require.Equal(t, regionSize, region.Size())

	bytes, err := region.Bytes()
	require.NoError(t, err)
	require.Equal(t, regionSize, bytes.Len())

	require.NoError(t, bytes.Store(10, 0xAA))
	v, err := bytes.Load(10)
	require.NoError(t, err)
	require.EqualValues(t, 0xAA, v)
}

func TestViewTyped(t *testing.T) {
	path := tempBacking(t)

	region, err := devmem.Open(nil, path, 0, regionSize, devmem.Options{})
	require.NoError(t, err)
	defer region.Close()

	words, err := devmem.View[uint32](region, 16, 8)
	require.NoError(t, err)
	require.Equal(t, 8, words.Len())

	require.NoError(t, words.Store(3, 0xDEADBEEF))
	v, err := words.Load(3)
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, v)

	// The write landed at byte offset 16 + 3*4 within the region.
	raw, err := devmem.ViewR[uint32](region, 28, 1)
	require.NoError(t, err)
	got, err := raw.Load(0)
	require.NoError(t, err)
	require.EqualValues(t, 0xDEADBEEF, got)
}

func TestViewBounds(t *testing.T) {
	path := tempBacking(t)

	region, err := devmem.Open(nil, path, 0, regionSize, devmem.Options{})
	require.NoError(t, err)
	defer region.Close()

	_, err = devmem.View[uint64](region, 0, regionSize/8+1)
	require.ErrorIs(t, err, volmem.ErrOutOfRange)

	_, err = devmem.View[uint32](region, 2, 1)
	require.Error(t, err)
}

func TestReadOnlyRegion(t *testing.T) {
	path := tempBacking(t)

	region, err := devmem.Open(nil, path, 0, regionSize, devmem.Options{ReadOnly: true})
	require.NoError(t, err)
	defer region.Close()

	_, err = region.Bytes()
	require.ErrorIs(t, err, devmem.ErrReadOnlyRegion)
	_, err = devmem.View[uint32](region, 0, 4)
	require.ErrorIs(t, err, devmem.ErrReadOnlyRegion)

	ro, err := region.BytesRO()
	require.NoError(t, err)
	v, err := ro.Load(0)
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
}

func TestClosedRegion(t *testing.T) {
	path := tempBacking(t)

	region, err := devmem.Open(nil, path, 0, regionSize, devmem.Options{})
	require.NoError(t, err)
	require.NoError(t, region.Close())
	require.NoError(t, region.Close())

	_, err = region.Bytes()
	require.ErrorIs(t, err, devmem.ErrClosedRegion)
	_, err = region.BytesRO()
	require.ErrorIs(t, err, devmem.ErrClosedRegion)
	_, err = devmem.View[uint32](region, 0, 1)
	require.ErrorIs(t, err, devmem.ErrClosedRegion)
}

func TestOpenErrors(t *testing.T) {
	_, err := devmem.Open(nil, filepath.Join(t.TempDir(), "missing"), 0, regionSize, devmem.Options{})
	require.Error(t, err)

	path := tempBacking(t)
	_, err = devmem.Open(nil, path, 0, 0, devmem.Options{})
	require.Error(t, err)

	_, err = devmem.Open(nil, path, 12, 64, devmem.Options{})
	require.Error(t, err)
}
