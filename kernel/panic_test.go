// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package kernel

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/dyseos/dyseos/console"
	"github.com/dyseos/dyseos/cpu"
)

type stringer struct{}

func (stringer) String() string { return "stringer" }

// faultyPort raises a Go panic on the first byte written.
type faultyPort struct{}

func (faultyPort) WriteByte(c byte) error {
	panic("port fault")
}

// nullPort discards every byte.
type nullPort struct{}

func (nullPort) WriteByte(c byte) error {
	return nil
}

// mockHalt resets the reentrancy flag, captures the system console and
// replaces parking with a counter.
func mockHalt(t *testing.T) (sink *bytes.Buffer, parks *int) {
	t.Helper()

	sink = new(bytes.Buffer)
	parks = new(int)

	panicking.Store(false)

	if err := console.Attach(sink); err != nil {
		t.Fatal(err)
	}

	parkFn = func() {
		*parks++
	}

	t.Cleanup(func() {
		panicking.Store(false)
		parkFn = cpu.Park
		console.Attach(nil)
	})

	return
}

func TestNewRecord(t *testing.T) {
	specs := []struct {
		v   any
		exp string
	}{
		{"text", "text"},
		{errors.New("failure"), "failure"},
		{stringer{}, "stringer"},
		{42, "42"},
		{nil, "<nil>"},
	}

	for specIndex, spec := range specs {
		r := NewRecord(spec.v)

		if r.Message != spec.exp {
			t.Errorf("[spec %d] expected %q; got %q", specIndex, spec.exp, r.Message)
		}

		if r.Location != nil {
			t.Errorf("[spec %d] expected no location", specIndex)
		}
	}
}

func TestPanic(t *testing.T) {
	for _, test := range []struct {
		name string
		r    *Record
		exp  string
	}{
		{
			name: "with location",
			r:    &Record{Location: &Location{File: "main.go", Line: 42}, Message: "boom"},
			exp:  "Kernel panic! main.go:42: boom\r\n",
		},
		{
			name: "large line number",
			r:    &Record{Location: &Location{File: "main.go", Line: 1234567}, Message: "boom"},
			exp:  "Kernel panic! main.go:1234567: boom\r\n",
		},
		{
			name: "without location",
			r:    &Record{Message: "boom"},
			exp:  "Kernel panic! ???:0: boom\r\n",
		},
		{
			name: "empty message",
			r:    &Record{},
			exp:  "Kernel panic! ???:0: \r\n",
		},
		{
			name: "nil record",
			r:    nil,
			exp:  "Kernel panic! ???:0: \r\n",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			sink, parks := mockHalt(t)

			Panic(test.r)

			if sink.String() != test.exp {
				t.Fatalf("expected %q; got %q", test.exp, sink.String())
			}

			if *parks != 1 {
				t.Fatalf("expected one park; got %d", *parks)
			}
		})
	}
}

func TestPanicReentrant(t *testing.T) {
	sink, parks := mockHalt(t)

	Panic(NewRecord("first"))
	Panic(NewRecord("second"))
	Panic(NewRecord("third"))

	if exp := "Kernel panic! ???:0: first\r\n"; sink.String() != exp {
		t.Fatalf("expected %q; got %q", exp, sink.String())
	}

	if *parks != 3 {
		t.Fatalf("expected every invocation to park; got %d", *parks)
	}
}

func TestPanicPortFault(t *testing.T) {
	_, parks := mockHalt(t)

	if err := console.Attach(faultyPort{}); err != nil {
		t.Fatal(err)
	}

	func() {
		defer func() {
			if v := recover(); v != nil {
				t.Fatalf("fault while reporting escaped Panic: %v", v)
			}
		}()

		Panic(NewRecord("first"))
	}()

	if *parks != 1 {
		t.Fatalf("expected one park; got %d", *parks)
	}

	if !panicking.Load() {
		t.Fatal("expected the reentrancy flag to stay set")
	}

	// the console is released while unwinding the fault
	if err := console.Attach(nil); err != nil {
		t.Fatal(err)
	}
}

func TestPanicAllocations(t *testing.T) {
	mockHalt(t)

	if err := console.Attach(nullPort{}); err != nil {
		t.Fatal(err)
	}

	r := &Record{Location: &Location{File: "main.go", Line: 42}, Message: "boom"}

	allocs := testing.AllocsPerRun(10, func() {
		panicking.Store(false)
		Panic(r)
	})

	if allocs != 0 {
		t.Fatalf("expected Panic not to allocate; got %v allocations", allocs)
	}
}

func TestRecover(t *testing.T) {
	sink, parks := mockHalt(t)

	var file string
	var line int

	func() {
		defer Recover()
		_, file, line, _ = runtime.Caller(0)
		panic("boom")
	}()

	exp := fmt.Sprintf("Kernel panic! %s:%d: boom\r\n", file, line+1)

	if sink.String() != exp {
		t.Fatalf("expected %q; got %q", exp, sink.String())
	}

	if *parks != 1 {
		t.Fatalf("expected one park; got %d", *parks)
	}
}

func TestRecoverRuntimeError(t *testing.T) {
	sink, _ := mockHalt(t)

	var file string
	var line int
	var s []int

	func() {
		defer Recover()
		_, file, line, _ = runtime.Caller(0)
		s[len(file)] = 1
	}()

	prefix := fmt.Sprintf("Kernel panic! %s:%d: runtime error: index out of range", file, line+1)

	if got := sink.String(); !strings.HasPrefix(got, prefix) || strings.Count(got, "\r\n") != 1 {
		t.Fatalf("expected a single line starting with %q; got %q", prefix, got)
	}
}

func TestRecoverNoPanic(t *testing.T) {
	sink, parks := mockHalt(t)

	func() {
		defer Recover()
	}()

	if sink.Len() != 0 || *parks != 0 {
		t.Fatal("expected Recover to be a no-op without a panic")
	}
}
