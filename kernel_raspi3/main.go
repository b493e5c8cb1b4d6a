// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build arm64 && raspi3

package main

import (
	_ "unsafe"

	"github.com/dyseos/dyseos/kernel"

	// image entry point
	_ "github.com/dyseos/dyseos/boot"
)

// kernelInit is entered by the boot core once bss is zeroed, the Go runtime
// is not initialized.
//
//go:linkname kernelInit kernel_init
func kernelInit() {
	kernel.Start()
}

func main() {
	kernelInit()
}
