// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package console

import (
	"fmt"
	"io"

	"github.com/dyseos/dyseos/cpu"
	"github.com/dyseos/dyseos/mutex"
)

// system is the only console instance, it lives for the whole program.
var system mutex.Mutex[Console]

var (
	// parkFn is mocked by tests.
	parkFn = cpu.Park
)

// Output is an io.Writer over the system console, suitable for log.SetOutput.
var Output io.Writer = writer{}

type writer struct{}

func (writer) Write(p []byte) (int, error) {
	g, err := system.Lock()

	if err != nil {
		parkFn()
		return 0, err
	}

	defer g.Release()

	if _, err = g.Data().Write(p); err != nil {
		parkFn()
	}

	return len(p), nil
}

// Puts writes the concatenation of parts to the system console, under a
// single acquisition. Failing to acquire the console, or to write to it,
// parks the executing core as there is no other channel to report through.
func Puts(parts ...string) {
	g, err := system.Lock()

	if err != nil {
		parkFn()
		return
	}

	defer g.Release()

	c := g.Data()

	for _, s := range parts {
		if _, err = c.WriteString(s); err != nil {
			parkFn()
			return
		}
	}
}

// Print formats its operands like fmt.Print and writes the result to the
// system console.
func Print(a ...any) {
	Puts(fmt.Sprint(a...))
}

// Println formats its operands like fmt.Print and writes the result, followed
// by a newline, to the system console.
func Println(a ...any) {
	Puts(fmt.Sprint(a...), "\n")
}

// Printf formats according to a format specifier and writes the result to
// the system console.
func Printf(format string, a ...any) {
	Puts(fmt.Sprintf(format, a...))
}

// Attach replaces the port of the system console, a nil port restores the
// board default. The byte counter is preserved.
func Attach(port io.ByteWriter) error {
	return system.Do(func(c *Console) {
		c.port = port
	})
}

// Written returns the number of bytes stored to the system console port.
func Written() (n int, err error) {
	err = system.Do(func(c *Console) {
		n = c.Written()
	})

	return
}
