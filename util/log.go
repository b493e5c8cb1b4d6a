// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"bytes"
	"io"
	"sync"

	"golang.org/x/term"
)

const outputLimit = 1024
const flushChr = 0x0a // \n

// lines starting with panicPrefix are rendered in red on a terminal
const panicPrefix = "Kernel panic!"

// Serial is the receiving end of a simulated UART line, bytes are buffered
// and forwarded one line at a time.
type Serial struct {
	sync.Mutex

	buf      bytes.Buffer
	out      io.Writer
	t        *term.Terminal
	received int
}

// NewSerial returns a Serial forwarding raw bytes to out.
func NewSerial(out io.Writer) *Serial {
	return &Serial{out: out}
}

// NewTermSerial returns a Serial rendering lines on a terminal, carriage
// returns are left to the terminal.
func NewTermSerial(rw io.ReadWriter) *Serial {
	return &Serial{
		out: rw,
		t:   term.NewTerminal(rw, ""),
	}
}

// WriteByte implements io.ByteWriter.
func (s *Serial) WriteByte(c byte) error {
	s.Lock()
	defer s.Unlock()

	s.received++
	s.buf.WriteByte(c)

	if c == flushChr || s.buf.Len() > outputLimit {
		return s.flush()
	}

	return nil
}

// Flush forwards any pending partial line.
func (s *Serial) Flush() error {
	s.Lock()
	defer s.Unlock()

	return s.flush()
}

// Received returns the number of bytes written to the line.
func (s *Serial) Received() int {
	s.Lock()
	defer s.Unlock()

	return s.received
}

func (s *Serial) flush() (err error) {
	defer s.buf.Reset()

	if s.buf.Len() == 0 {
		return
	}

	if s.t == nil {
		_, err = s.out.Write(s.buf.Bytes())
		return
	}

	line := bytes.ReplaceAll(s.buf.Bytes(), []byte{'\r'}, nil)
	color := s.t.Escape.Green

	if bytes.HasPrefix(line, []byte(panicPrefix)) {
		color = s.t.Escape.Red
	}

	s.t.Write(color)
	s.t.Write(line)
	_, err = s.t.Write(s.t.Escape.Reset)

	return
}
