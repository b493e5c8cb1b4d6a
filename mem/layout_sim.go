// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !raspi3

package mem

// This example memory layout is used by the host simulator, offsets are
// relative to the start of the simulated RAM.
const (
	// Simulated RAM
	SimRAMSize = 0x00100000 // 1MB

	// Boot core stack, grows down from SimStackTop
	SimStackTop = 0x00010000 // 64KB

	// Uninitialized static storage
	SimBSSStart   = 0x00020000
	SimBSSMaxSize = SimRAMSize - SimBSSStart
	SimBSSSize    = 0x00001000 // 4KB
)
