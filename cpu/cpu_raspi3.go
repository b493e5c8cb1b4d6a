// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build arm64 && raspi3

package cpu

// defined in cpu_arm64.s
func readMPIDR() uint64
func park()
