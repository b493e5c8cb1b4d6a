// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package console

// Register is a memory mapped, write-only, byte-wide output register.
//
// Every WriteByte results in exactly one store to the register address, in
// program order.
type Register uintptr

// WriteByte stores c to the register, it never fails.
func (r Register) WriteByte(c byte) error {
	write8(uintptr(r), c)
	return nil
}
