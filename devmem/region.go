//go:build linux

// Package devmem maps device memory into the process and exposes it through
// volmem handles. The usual sources are /dev/mem, a UIO device node, or a
// sysfs resource file; any mappable file works, which is also how the tests
// exercise the package.
package devmem

import (
	"os"
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
	"golang.org/x/sys/unix"

	"github.com/hwkit/volmem"
)

// Options controls how a region is mapped.
type Options struct {
	// ReadOnly maps the region without write permission. Views minted from
	// a read-only region are read-only; requesting a writable view fails
	// with ErrReadOnlyRegion rather than faulting on the first store.
	ReadOnly bool
}

// Region is a shared mapping of a slice of a file or device into the
// process. The mapping stays valid until Close; handles derived from the
// region must not be used after it, which is the caller-supplied validity
// precondition every volmem handle carries.
type Region struct {
	logger *slog.Logger

	path     string
	data     []byte
	readOnly bool
}

// Open maps size bytes of path starting at offset. The file is opened with
// O_SYNC so that stores reach the device rather than the page cache, and
// mapped MAP_SHARED so that device writes are visible. offset must be a
// multiple of the system page size.
func Open(logger *slog.Logger, path string, offset int64, size int, options Options) (*Region, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		return nil, errors.Newf("mapping size %d is not positive", size)
	}
	page := unix.Getpagesize()
	if int(offset) != volmem.AlignDown(int(offset), uint(page)) {
		return nil, errors.Newf("mapping offset %d is not a multiple of the page size %d", offset, page)
	}

	flag := os.O_RDWR
	prot := unix.PROT_READ | unix.PROT_WRITE
	if options.ReadOnly {
		flag = os.O_RDONLY
		prot = unix.PROT_READ
	}

	f, err := os.OpenFile(path, flag|os.O_SYNC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), offset, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping %d bytes of %s at offset %d", size, path, offset)
	}

	logger.Debug("devmem: mapped region",
		slog.String("Path", path),
		slog.Int64("Offset", offset),
		slog.Int("Size", size),
		slog.Bool("ReadOnly", options.ReadOnly))

	return &Region{
		logger:   logger,
		path:     path,
		data:     data,
		readOnly: options.ReadOnly,
	}, nil
}

// Base returns the mapping's starting address.
func (r *Region) Base() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(r.data))
}

// Size returns the mapping's extent in bytes.
func (r *Region) Size() int {
	return len(r.data)
}

// Bytes returns a read-write byte handle over the whole region.
func (r *Region) Bytes() (volmem.Slice[byte], error) {
	if r.data == nil {
		return volmem.Slice[byte]{}, errors.Wrapf(ErrClosedRegion, "path is %s", r.path)
	}
	if r.readOnly {
		return volmem.Slice[byte]{}, errors.Wrapf(ErrReadOnlyRegion, "path is %s", r.path)
	}
	return volmem.FromSlice(r.data), nil
}

// BytesRO returns a read-only byte handle over the whole region.
func (r *Region) BytesRO() (volmem.RSlice[byte], error) {
	if r.data == nil {
		return volmem.RSlice[byte]{}, errors.Wrapf(ErrClosedRegion, "path is %s", r.path)
	}
	return volmem.FromSlice(r.data).ReadOnly(), nil
}

// Close unmaps the region. Every handle derived from it becomes invalid.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil

	r.logger.Debug("devmem: unmapped region", slog.String("Path", r.path))
	return unix.Munmap(data)
}

// View mints a read-write handle over n values of type T starting at byte
// offset off within the region. The window must lie inside the mapping and
// off must be aligned for T.
func View[T any](r *Region, off, n int) (volmem.Slice[T], error) {
	addr, err := viewAddr[T](r, off, n, true)
	if err != nil {
		return volmem.Slice[T]{}, err
	}
	return volmem.NewSlice[T](addr, n), nil
}

// ViewR mints a read-only handle over n values of type T starting at byte
// offset off within the region.
func ViewR[T any](r *Region, off, n int) (volmem.RSlice[T], error) {
	addr, err := viewAddr[T](r, off, n, false)
	if err != nil {
		return volmem.RSlice[T]{}, err
	}
	return volmem.NewRSlice[T](addr, n), nil
}

func viewAddr[T any](r *Region, off, n int, writable bool) (unsafe.Pointer, error) {
	if r.data == nil {
		return nil, errors.Wrapf(ErrClosedRegion, "path is %s", r.path)
	}
	if writable && r.readOnly {
		return nil, errors.Wrapf(ErrReadOnlyRegion, "path is %s", r.path)
	}

	var zero T
	stride := int(unsafe.Sizeof(zero))
	if off < 0 || n < 0 || off+n*stride > len(r.data) {
		return nil, errors.Wrapf(volmem.ErrOutOfRange, "view spans [%d, %d), region is %d bytes", off, off+n*stride, len(r.data))
	}

	addr := unsafe.Add(r.Base(), off)
	if !volmem.Aligned(uintptr(addr), unsafe.Alignof(zero)) {
		return nil, errors.Newf("view offset %d is not aligned for the element type, next aligned offset is %d",
			off, volmem.AlignUp(off, uint(unsafe.Alignof(zero))))
	}
	return addr, nil
}
