// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package cpu provides access to the identity of the executing core and to
// its low power wait state.
package cpu

import (
	"github.com/usbarmory/tamago/bits"
)

// BootCore is the affinity of the core performing one-time startup.
const BootCore = 0

// MPIDR_EL1 Aff0, only the low two bits identify a core on a four core
// cluster.
const (
	affinityPos  = 0
	affinityMask = 0b11
)

// Affinity returns the core number encoded in an MPIDR_EL1 value.
func Affinity(mpidr uint64) uint64 {
	return bits.Get64(&mpidr, affinityPos, affinityMask)
}

// ID returns the core number of the executing core.
func ID() uint64 {
	return Affinity(readMPIDR())
}

// IsBootCore reports whether id designates the boot core.
func IsBootCore(id uint64) bool {
	return id == BootCore
}

// Park stops the executing core permanently, it never returns.
func Park() {
	park()
}
