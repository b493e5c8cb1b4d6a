// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build arm64 && raspi3

package boot

import (
	_ "unsafe"

	"github.com/dyseos/dyseos/cpu"
	"github.com/dyseos/dyseos/mem"
)

// Constants exported to rt0_arm64.s through go_asm.h.
const (
	coreMask = 0b11
	stackTop = mem.StackTop
)

// bootG stands in for the runtime goroutine descriptor while the Go runtime
// is not initialized, it is loaded in the g register by _rt0_arm64_raspi3.
//
// Only the leading stack bounds and stack guards (runtime.g stack.lo,
// stack.hi, stackguard0, stackguard1) are set, so that function prologue
// checks pass on the boot stack, every other field reads as zero. Being
// statically initialized it resides outside bss and survives its zeroing.
var bootG = [16]uint64{
	mem.StackBottom,
	mem.StackTop,
	mem.StackBottom + mem.StackGuard,
	mem.StackBottom + mem.StackGuard,
}

// board is the Platform of the physical core, its stack is set by
// _rt0_arm64_raspi3 before any Go code runs.
type board struct{}

func (board) CoreID() uint64 {
	return cpu.ID()
}

func (board) SetStack(top uintptr) {}

func (board) Park() {
	cpu.Park()
}

// kernelInit is the next stage initializer, provided at link time.
//
//go:linkname kernelInit kernel_init
func kernelInit()

// start is called by _rt0_arm64_raspi3 on the boot core, with a valid stack
// and the bounds of the Go linker bss and noptrbss sections.
//
//go:nosplit
func start(bssStart uintptr, bssEnd uintptr) {
	handoff(board{}, nil, Layout{
		StackTop: stackTop,
		BSSStart: bssStart,
		BSSEnd:   bssEnd,
		Entry:    kernelInit,
	})
}
