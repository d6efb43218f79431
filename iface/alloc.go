package iface

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/probonopd/qwlroots/errors"
)

// Allocator provides the memory behind handles and implementations.
// Alloc returns zeroed memory for one value of type t. Free is called
// exactly once per successful Alloc.
type Allocator interface {
	Alloc(t reflect.Type) (unsafe.Pointer, error)
	Free(t reflect.Type, p unsafe.Pointer)
}

// HeapAllocator allocates on the Go heap. Free zeroes the memory, so a
// handle used after release no longer points back to its owner.
type HeapAllocator struct{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(t reflect.Type) (unsafe.Pointer, error) {
	return reflect.New(t).UnsafePointer(), nil
}

// Free implements Allocator.
func (HeapAllocator) Free(t reflect.Type, p unsafe.Pointer) {
	reflect.NewAt(t, p).Elem().SetZero()
}

// CountingAllocator wraps another allocator and keeps per-type counts of
// allocations and releases. Releasing memory it did not hand out, or
// releasing twice, panics.
type CountingAllocator struct {
	parent Allocator
	allocs map[reflect.Type]int
	frees  map[reflect.Type]int
	live   map[unsafe.Pointer]reflect.Type
	mu     sync.Mutex
}

// NewCountingAllocator wraps parent; a nil parent means HeapAllocator.
func NewCountingAllocator(parent Allocator) *CountingAllocator {
	if parent == nil {
		parent = HeapAllocator{}
	}
	return &CountingAllocator{
		parent: parent,
		allocs: make(map[reflect.Type]int),
		frees:  make(map[reflect.Type]int),
		live:   make(map[unsafe.Pointer]reflect.Type),
	}
}

// Alloc implements Allocator.
func (a *CountingAllocator) Alloc(t reflect.Type) (unsafe.Pointer, error) {
	p, err := a.parent.Alloc(t)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.allocs[t]++
	a.live[p] = t
	return p, nil
}

// Free implements Allocator.
func (a *CountingAllocator) Free(t reflect.Type, p unsafe.Pointer) {
	a.mu.Lock()
	lt, ok := a.live[p]
	if !ok || lt != t {
		a.mu.Unlock()
		panic(errors.New(errors.PhaseAlloc, errors.KindInvalidState).
			GoType(t.String()).
			Value(uintptr(p)).
			Detail("free of memory that is not live (double free?)").
			Build())
	}
	delete(a.live, p)
	a.frees[t]++
	a.mu.Unlock()

	a.parent.Free(t, p)
}

// Allocs returns the number of allocations of type t.
func (a *CountingAllocator) Allocs(t reflect.Type) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs[t]
}

// Frees returns the number of releases of type t.
func (a *CountingAllocator) Frees(t reflect.Type) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frees[t]
}

// Live returns the number of allocations not yet released.
func (a *CountingAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Totals returns the allocation and release counts over all types.
func (a *CountingAllocator) Totals() (allocs, frees int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, n := range a.allocs {
		allocs += n
	}
	for _, n := range a.frees {
		frees += n
	}
	return allocs, frees
}
