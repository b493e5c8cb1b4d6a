// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build raspi3

package mem

// Raspberry Pi 3 Model B (BCM2837) memory layout.
const (
	// Kernel image load address (firmware default for 64-bit kernels)
	KernelStart = 0x00080000

	// Boot core stack, grows down from the image start
	StackTop    = KernelStart
	StackSize   = 0x00010000 // 64KB
	StackBottom = StackTop - StackSize

	// Lowest stack bytes reserved to function prologue checks
	StackGuard = 0x00001000

	// Peripherals (ARM physical view)
	PeripheralBase = 0x3f000000

	// PL011 UART0 data register, byte-wide writes transmit
	UART0Data = PeripheralBase + 0x00201000
)
