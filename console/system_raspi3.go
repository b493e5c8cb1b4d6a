// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build raspi3

package console

import (
	"github.com/dyseos/dyseos/mem"
)

// writeDefault stores b to the PL011 UART0 data register.
func writeDefault(b byte) error {
	return Register(mem.UART0Data).WriteByte(b)
}
