//go:build debug_volmem

package volmem

import (
	"fmt"
	"sync"

	"github.com/dolthub/swiss"
)

// Exclusive handles cannot be tracked statically in Go, so debug builds keep
// a process-wide registry of the address ranges claimed by live exclusive
// handles. Constructing an exclusive handle over memory that overlaps an
// existing claim panics, which catches violations of the one-handle-per-
// address discipline in tests.

var (
	claimsMutex sync.Mutex
	claims      = swiss.NewMap[uintptr, uintptr](42)
)

func claimRange(start, end uintptr) {
	if start == end {
		return
	}
	claimsMutex.Lock()
	defer claimsMutex.Unlock()

	var conflictStart, conflictEnd uintptr
	var conflict bool
	claims.Iter(func(s uintptr, e uintptr) bool {
		if start < e && s < end {
			conflictStart, conflictEnd = s, e
			conflict = true
			return true
		}
		return false
	})
	if conflict {
		panic(fmt.Sprintf("volmem: exclusive claim [%#x, %#x) overlaps existing claim [%#x, %#x)",
			start, end, conflictStart, conflictEnd))
	}

	claims.Put(start, end)
}

func releaseRange(start, end uintptr) {
	// Empty ranges are never registered, so releasing one must not touch
	// the registry: a live claim can share the empty range's start address.
	if start == end {
		return
	}
	claimsMutex.Lock()
	defer claimsMutex.Unlock()

	claims.Delete(start)
}
