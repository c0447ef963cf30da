package devmem

import "github.com/pkg/errors"

// ErrReadOnlyRegion is the error wrapped and returned when a writable view is requested over a region mapped read-only
var ErrReadOnlyRegion error = errors.New("region is mapped read-only")

// ErrClosedRegion is the error wrapped and returned when a view is requested over a region that has been closed
var ErrClosedRegion error = errors.New("region is closed")
