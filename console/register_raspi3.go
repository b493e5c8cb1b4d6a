// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build arm64 && raspi3

package console

// defined in register_arm64.s
func write8(addr uintptr, val byte)
