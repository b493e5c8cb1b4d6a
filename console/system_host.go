// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !raspi3

package console

import (
	"os"
)

// writeDefault writes b to the standard output.
func writeDefault(b byte) (err error) {
	_, err = os.Stdout.Write([]byte{b})
	return
}
