// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !(arm64 && raspi3)

package cpu

import (
	"runtime"
)

// Outside the board every goroutine acts as a uniprocessor boot core, park
// terminates it after running its deferred calls.

// MPIDR_EL1 reset value for core 0 (RES1 bit 31 set).
const hostMPIDR = 0x80000000

func readMPIDR() uint64 {
	return hostMPIDR
}

func park() {
	runtime.Goexit()
}
