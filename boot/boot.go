// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package boot implements the architecture entry sequence: boot core
// selection, stack setup, zeroing of uninitialized static storage and
// hand-off to the next initialization stage.
package boot

import (
	"github.com/dyseos/dyseos/cpu"
	"github.com/dyseos/dyseos/mem"
)

// State represents a step of the entry sequence.
type State int

const (
	Start State = iota
	ParkForever
	StackInit
	BSSZero
	NextStageInit
)

func (s State) String() string {
	switch s {
	case Start:
		return "Start"
	case ParkForever:
		return "ParkForever"
	case StackInit:
		return "StackInit"
	case BSSZero:
		return "BSSZero"
	case NextStageInit:
		return "NextStageInit"
	default:
		return "Unknown"
	}
}

// Layout holds the build supplied boot parameters, it is consumed once.
type Layout struct {
	// StackTop is the initial boot core stack pointer
	StackTop uintptr
	// BSSStart is the first byte of uninitialized static storage
	BSSStart uintptr
	// BSSEnd is the first byte past uninitialized static storage
	BSSEnd uintptr
	// Entry is the next stage initializer
	Entry func()
}

// Platform represents the core executing the entry sequence.
type Platform interface {
	// CoreID returns the raw core identification register value.
	CoreID() uint64
	// SetStack sets the core stack pointer.
	SetStack(top uintptr)
	// Park stops the core, it is not expected to return.
	Park()
}

// Tracer can optionally be implemented by a Platform to observe every state
// transition.
type Tracer interface {
	Transition(s State)
}

var (
	// zeroFn is mocked by tests.
	zeroFn = mem.Zero
)

// Run executes the entry sequence on p. Cores other than the boot core are
// parked before any shared state is touched, the boot core prepares its
// stack and static storage and invokes the next stage, which is not expected
// to return.
func Run(p Platform, l Layout) {
	t, _ := p.(Tracer)

	transition(t, Start)

	if !cpu.IsBootCore(cpu.Affinity(p.CoreID())) {
		transition(t, ParkForever)
		p.Park()
		return
	}

	transition(t, StackInit)
	p.SetStack(l.StackTop)

	handoff(p, t, l)
}

// handoff is the part of the sequence executed once a stack is available, t
// can be nil.
//
// On the board handoff runs before the Go runtime is initialized, it must not
// allocate nor perform dynamic type assertions.
func handoff(p Platform, t Tracer, l Layout) {
	transition(t, BSSZero)
	zeroFn(l.BSSStart, l.BSSEnd)

	transition(t, NextStageInit)
	l.Entry()

	transition(t, ParkForever)
	p.Park()
}

func transition(t Tracer, s State) {
	if t != nil {
		t.Transition(s)
	}
}
