// Package volmem provides typed handles over raw memory addresses whose
// every read and write is performed as an individual, non-elidable memory
// transaction. Ordinary loads and stores through Go pointers may be cached,
// merged, reordered, or removed by the compiler; the handles in this package
// route all access through opaque primitive operations so that each logical
// access becomes exactly one real transaction at the bound address. This is
// the behavior required by memory-mapped hardware registers, DMA buffers,
// and any location whose contents change independently of program logic.
//
// Two handle families exist. Ptr, RPtr, and WPtr are aliasable: cheap value
// types that may be copied freely, with no protection against concurrent
// mutable aliasing. Ref, RRef, WRef, and SliceRef are exclusive: each owns
// the sole right to reach its address through this package, which makes it
// safe to hand to another goroutine. Exclusive handles produce temporary
// aliasable handles through Borrow and BorrowMut, and can permanently
// forfeit their uniqueness through IntoPtr.
//
// Permissions are carried by the type: a read-only handle has no store
// method, so misuse of a read-only or write-only register does not compile.
// Permissions narrow (ReadOnly, WriteOnly) and never widen.
//
// Nothing here is atomic, fenced, or ordered across goroutines. Update is
// one load and one store, not a read-modify-write; a concurrent access to a
// multi-word value may observe a torn result. Callers that need cross-
// goroutine visibility must synchronize externally, or use sync/atomic
// where its guarantees fit.
//
// Constructing a handle from an address is the unsafe boundary: the caller
// attests that the address is non-nil, correctly aligned for the handle's
// type, in bounds, and not concurrently freed for as long as any derived
// handle is in use. The package cannot check any of this (builds with the
// debug_volmem tag verify alignment and exclusive-claim overlap).
package volmem
