// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package mem provides the build supplied memory layout and the early memory
// helpers needed before any allocator exists.
package mem

import (
	"unsafe"
)

const wordSize = unsafe.Sizeof(uintptr(0))

// Zero writes zero to every byte in the [start, end) address range, a zero
// length range performs no writes.
//
// Zero runs before uninitialized static storage is cleared, therefore it
// must not access any package variable nor allocate. The caller guarantees
// that start does not exceed end.
//
//go:nosplit
func Zero(start uintptr, end uintptr) {
	// unaligned head
	for ; start < end && start%wordSize != 0; start++ {
		*(*byte)(unsafe.Pointer(start)) = 0
	}

	for ; start < end && end-start >= wordSize; start += wordSize {
		*(*uintptr)(unsafe.Pointer(start)) = 0
	}

	// unaligned tail
	for ; start < end; start++ {
		*(*byte)(unsafe.Pointer(start)) = 0
	}
}
