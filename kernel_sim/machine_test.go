// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !raspi3

package main

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dyseos/dyseos/boot"
	"github.com/dyseos/dyseos/console"
	"github.com/dyseos/dyseos/kernel"
	"github.com/dyseos/dyseos/mem"
	"github.com/dyseos/dyseos/util"
)

func TestNewMachine(t *testing.T) {
	for _, test := range []struct {
		cores int
		bss   int
		err   error
	}{
		{cores: 1, bss: 0},
		{cores: 4, bss: mem.SimBSSSize},
		{cores: 2, bss: mem.SimBSSMaxSize},
		{cores: 0, bss: 16, err: errCores},
		{cores: 5, bss: 16, err: errCores},
		{cores: 4, bss: -1, err: errBSS},
		{cores: 4, bss: mem.SimBSSMaxSize + 1, err: errBSS},
	} {
		m, err := newMachine(test.cores, test.bss, func() {})

		if !errors.Is(err, test.err) {
			t.Errorf("cores=%d bss=%d: expected error %v; got %v", test.cores, test.bss, test.err, err)
			continue
		}

		if err != nil {
			continue
		}

		if len(m.cores) != test.cores || len(m.bss) != test.bss {
			t.Errorf("cores=%d bss=%d: got %d cores, %d bss bytes", test.cores, test.bss, len(m.cores), len(m.bss))
		}

		for i, b := range m.bss {
			if b != poison {
				t.Fatalf("expected bss byte %d to be poisoned", i)
			}
		}
	}
}

func TestRun(t *testing.T) {
	var entries atomic.Int32
	var m *machine

	entry := func() {
		entries.Add(1)

		for i, b := range m.bss {
			if b != 0 {
				t.Errorf("bss byte %d not zeroed before entry", i)
				return
			}
		}
	}

	m, err := newMachine(maxCores, 333, entry)

	if err != nil {
		t.Fatal(err)
	}

	m.run()

	if err = m.verify(); err != nil {
		t.Fatal(err)
	}

	if n := entries.Load(); n != 1 {
		t.Fatalf("expected a single hand-off; got %d", n)
	}

	exp := [][]boot.State{
		{boot.Start, boot.StackInit, boot.BSSZero, boot.NextStageInit, boot.ParkForever},
		{boot.Start, boot.ParkForever},
		{boot.Start, boot.ParkForever},
		{boot.Start, boot.ParkForever},
	}

	var got [][]boot.State

	for _, c := range m.cores {
		got = append(got, c.states)
	}

	if diff := cmp.Diff(exp, got); diff != "" {
		t.Fatalf("Got diff: %s", diff)
	}
}

func TestVerify(t *testing.T) {
	m, err := newMachine(2, 8, func() {})

	if err != nil {
		t.Fatal(err)
	}

	if err = m.verify(); err == nil {
		t.Fatal("expected poisoned bss to fail verification")
	}

	m.run()

	m.cores[1].stack = 0x1000

	if err = m.verify(); err == nil || !strings.Contains(err.Error(), "secondary core") {
		t.Fatalf("expected secondary stack to fail verification; got %v", err)
	}
}

func TestBootKernel(t *testing.T) {
	var out bytes.Buffer
	serial := util.NewSerial(&out)

	m, err := newMachine(maxCores, mem.SimBSSSize, kernel.Init)

	if err != nil {
		t.Fatal(err)
	}

	if err = m.attach(serial); err != nil {
		t.Fatal(err)
	}

	m.run()

	if err = serial.Flush(); err != nil {
		t.Fatal(err)
	}

	if err = m.verify(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(out.String(), "\r\n")

	if len(lines) != 4 || lines[3] != "" {
		t.Fatalf("expected 3 lines; got %q", out.String())
	}

	if lines[0] != kernel.Banner() {
		t.Errorf("expected banner %q; got %q", kernel.Banner(), lines[0])
	}

	if lines[1] != "Kernel initializing: ..." {
		t.Errorf("unexpected line %q", lines[1])
	}

	if !strings.HasPrefix(lines[2], "Kernel panic! ") || !strings.HasSuffix(lines[2], ": Reached end of existing kernel... more coming soon!") {
		t.Errorf("unexpected panic line %q", lines[2])
	}

	// the boot core parks from within the panic path
	exp := []boot.State{boot.Start, boot.StackInit, boot.BSSZero, boot.NextStageInit}

	if diff := cmp.Diff(exp, m.cores[0].states); diff != "" {
		t.Fatalf("Got diff: %s", diff)
	}

	if n, _ := console.Written(); n-m.written != serial.Received() {
		t.Fatalf("console wrote %d bytes, serial received %d", n-m.written, serial.Received())
	}
}
