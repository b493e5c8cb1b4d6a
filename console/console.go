// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package console implements the synchronized diagnostic output channel.
//
// A single Console, backed by a write-only byte port, is owned by a
// package-level mutex. Puts, Print, Println, Printf and Output are the only
// ways to reach it.
//
// The system console is a zero value, it is usable before package
// initialization and Puts neither allocates nor formats.
package console

import (
	"errors"
	"fmt"
	"io"
)

// ErrOutput is returned when a byte cannot be written to the port.
var ErrOutput = errors.New("output failure")

// Console streams text to a write-only byte port. The zero value writes to the
// board default port.
type Console struct {
	port    io.ByteWriter
	written int
}

// WriteByte stores b to the port.
func (c *Console) WriteByte(b byte) (err error) {
	if c.port == nil {
		err = writeDefault(b)
	} else {
		err = c.port.WriteByte(b)
	}

	if err != nil {
		return fmt.Errorf("%w, %v", ErrOutput, err)
	}

	c.written += 1

	return
}

// WriteString writes s to the port, each '\n' is preceded by '\r'.
func (c *Console) WriteString(s string) (n int, err error) {
	for n = 0; n < len(s); n++ {
		if err = c.put(s[n]); err != nil {
			return
		}
	}

	return
}

// Write writes p to the port, each '\n' is preceded by '\r'.
func (c *Console) Write(p []byte) (n int, err error) {
	for n = 0; n < len(p); n++ {
		if err = c.put(p[n]); err != nil {
			return
		}
	}

	return
}

// Written returns the number of bytes stored to the port.
func (c *Console) Written() int {
	return c.written
}

func (c *Console) put(b byte) (err error) {
	if b == '\n' {
		if err = c.WriteByte('\r'); err != nil {
			return
		}
	}

	return c.WriteByte(b)
}
