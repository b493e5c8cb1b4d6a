// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package mutex provides a mutual exclusion primitive usable before any
// scheduler exists.
//
// A Mutex owns the value it protects, the value is only reachable through a
// Guard obtained by a successful acquisition. Acquisition never blocks, Lock
// busy-retries a fixed number of times and then gives up.
package mutex

import (
	"sync/atomic"
)

// Attempts is the number of compare-and-swap attempts performed by Lock
// before returning ErrTimeout.
const Attempts = 100

// Error is a constant error value, valid before package initialization.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrTimeout is returned by Lock when the flag could not be acquired within
// Attempts tries.
const ErrTimeout = Error("failed to acquire lock")

var (
	// TODO: replace with a wait/wake primitive once one is available.
	yieldFn func()
)

// Mutex is a flag protecting exclusive access to a value of type T.
//
// The zero value is an unlocked Mutex holding the zero value of T. A Mutex
// must not be copied after first use.
type Mutex[T any] struct {
	locked atomic.Bool
	data   T
}

// Guard grants exclusive access to the value owned by a Mutex for as long as
// it is held. The zero value is a released Guard.
//
// Guards are values, acquiring a Mutex never allocates. A Guard must not be
// copied.
type Guard[T any] struct {
	m *Mutex[T]
}

// New returns an unlocked Mutex owning v.
func New[T any](v T) *Mutex[T] {
	return &Mutex[T]{data: v}
}

// TryLock performs a single attempt at acquiring the Mutex. It returns false
// if the Mutex is held by someone else, without side effects.
func (m *Mutex[T]) TryLock() (g Guard[T], ok bool) {
	// sync/atomic operations are sequentially consistent, which subsumes
	// acquire ordering on success.
	if !m.locked.CompareAndSwap(false, true) {
		return
	}

	return Guard[T]{m: m}, true
}

// Lock attempts to acquire the Mutex up to Attempts times, returning
// ErrTimeout if all of them fail. Under contention no fairness is provided.
func (m *Mutex[T]) Lock() (g Guard[T], err error) {
	var ok bool

	for i := 0; i < Attempts; i++ {
		if g, ok = m.TryLock(); ok {
			return
		}

		if yieldFn != nil {
			yieldFn()
		}
	}

	return g, ErrTimeout
}

// Do acquires the Mutex with Lock and invokes fn on the protected value. The
// Mutex is released when fn returns or panics.
func (m *Mutex[T]) Do(fn func(v *T)) (err error) {
	g, err := m.Lock()

	if err != nil {
		return
	}

	defer g.Release()
	fn(g.Data())

	return
}

// Data returns the protected value, or nil once the Guard has been released.
func (g *Guard[T]) Data() *T {
	if g.m == nil {
		return nil
	}

	return &g.m.data
}

// Release unlocks the Mutex, publishing every write performed through the
// Guard to the next holder. Calling Release more than once has no effect.
func (g *Guard[T]) Release() {
	if g.m == nil {
		return
	}

	m := g.m
	g.m = nil
	m.locked.Store(false)
}
