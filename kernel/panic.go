// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package kernel

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/dyseos/dyseos/console"
	"github.com/dyseos/dyseos/cpu"
)

// Location identifies the source position of a fatal error.
type Location struct {
	File string
	Line int
}

// Record describes an unrecoverable error.
type Record struct {
	// Location is nil when the source position is unknown
	Location *Location
	Message  string
}

var unknownLocation = Location{File: "???", Line: 0}

var (
	// panicking is set on first entry into Panic and never reset.
	panicking atomic.Bool

	// parkFn is mocked by tests.
	parkFn = cpu.Park
)

// NewRecord returns a Record, without location, describing v.
func NewRecord(v any) *Record {
	var msg string

	switch t := v.(type) {
	case string:
		msg = t
	case error:
		msg = t.Error()
	case fmt.Stringer:
		msg = t.String()
	default:
		msg = fmt.Sprintf("%v", t)
	}

	return &Record{Message: msg}
}

// Panic outputs a single diagnostic line for r and halts the executing core,
// it never returns. A nil r is reported as an empty Record.
//
// A Panic triggered while a previous one is being reported halts immediately
// without printing, as printing itself might be failing. A fault raised while
// reporting also halts.
//
// Panic neither allocates nor relies on package initialization.
func Panic(r *Record) {
	defer func() {
		if recover() != nil {
			parkFn()
		}
	}()

	if panicking.Swap(true) {
		parkFn()
		return
	}

	loc := unknownLocation
	msg := ""

	if r != nil {
		if r.Location != nil {
			loc = *r.Location
		}

		msg = r.Message
	}

	var buf [20]byte
	line := strconv.AppendInt(buf[:0], int64(loc.Line), 10)

	console.Puts("Kernel panic! ", loc.File, ":", unsafe.String(&line[0], len(line)), ": ", msg, "\n")

	parkFn()
}

// Recover converts a Go panic into a Panic call, it must be deferred
// directly by the function whose panics should be handled:
//
//	defer kernel.Recover()
func Recover() {
	v := recover()

	if v == nil {
		return
	}

	r := NewRecord(v)
	r.Location = panicLocation()

	Panic(r)
}

// panicLocation returns the location of the frame which invoked panic, or
// caused a runtime error, as seen from a deferred call.
func panicLocation() *Location {
	var pcs [32]uintptr

	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	unwinding := false

	for {
		f, more := frames.Next()

		switch {
		case f.Function == "runtime.gopanic":
			unwinding = true
		case unwinding && !strings.HasPrefix(f.Function, "runtime."):
			return &Location{File: f.File, Line: f.Line}
		}

		if !more {
			return nil
		}
	}
}
