// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !raspi3

package main

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"k8s.io/klog/v2"

	"github.com/dyseos/dyseos/boot"
	"github.com/dyseos/dyseos/console"
	"github.com/dyseos/dyseos/cpu"
	"github.com/dyseos/dyseos/mem"
	"github.com/dyseos/dyseos/util"
)

// maxCores is bounded by the MPIDR affinity bits used for core selection.
const maxCores = 4

// bss content before the boot core runs
const poison = 0xa5

// MPIDR_EL1 RES1 bit
const mpidrRES1 = 1 << 31

var (
	errCores = errors.New("invalid number of cores")
	errBSS   = errors.New("invalid bss size")
)

type core struct {
	index  int
	mpidr  uint64
	stack  uintptr
	states []boot.State
}

func (c *core) CoreID() uint64 {
	return c.mpidr
}

func (c *core) SetStack(top uintptr) {
	c.stack = top
}

func (c *core) Park() {
	cpu.Park()
}

func (c *core) Transition(s boot.State) {
	klog.V(1).Infof("core %d: %s", c.index, s)
	c.states = append(c.states, s)
}

// machine is a simulated multi-core board sharing one RAM and one serial
// line.
type machine struct {
	ram   []byte
	bss   []byte
	cores []*core
	entry func()

	serial  *util.Serial
	written int
}

func newMachine(cores int, bssSize int, entry func()) (*machine, error) {
	if cores < 1 || cores > maxCores {
		return nil, fmt.Errorf("%w, %d not in [1, %d]", errCores, cores, maxCores)
	}

	if bssSize < 0 || bssSize > mem.SimBSSMaxSize {
		return nil, fmt.Errorf("%w, %d not in [0, %d]", errBSS, bssSize, mem.SimBSSMaxSize)
	}

	m := &machine{
		ram:   make([]byte, mem.SimRAMSize),
		entry: entry,
	}

	m.bss = m.ram[mem.SimBSSStart : mem.SimBSSStart+bssSize]

	for i := range m.bss {
		m.bss[i] = poison
	}

	for i := 0; i < cores; i++ {
		m.cores = append(m.cores, &core{
			index: i,
			mpidr: mpidrRES1 | uint64(i),
		})
	}

	return m, nil
}

func (m *machine) base() uintptr {
	return uintptr(unsafe.Pointer(&m.ram[0]))
}

// attach connects the system console to s.
func (m *machine) attach(s *util.Serial) (err error) {
	if err = console.Attach(s); err != nil {
		return
	}

	m.serial = s
	m.written, err = console.Written()

	return
}

// run powers on every core and waits for all of them to park.
func (m *machine) run() {
	var wg sync.WaitGroup

	l := boot.Layout{
		StackTop: m.base() + mem.SimStackTop,
		BSSStart: m.base() + mem.SimBSSStart,
		BSSEnd:   m.base() + mem.SimBSSStart + uintptr(len(m.bss)),
		Entry:    m.entry,
	}

	wg.Add(len(m.cores))

	for _, c := range m.cores {
		go func(c *core) {
			defer wg.Done()
			boot.Run(c, l)
		}(c)
	}

	wg.Wait()
	runtime.KeepAlive(m.ram)
}

// verify checks the machine state once every core is parked.
func (m *machine) verify() error {
	for i, b := range m.bss {
		if b != 0 {
			return fmt.Errorf("bss offset %#x not zeroed (%#x)", i, b)
		}
	}

	for _, c := range m.cores {
		primary := cpu.IsBootCore(cpu.Affinity(c.mpidr))

		switch {
		case primary && c.stack != m.base()+mem.SimStackTop:
			return fmt.Errorf("core %d: unexpected stack %#x", c.index, c.stack)
		case !primary && c.stack != 0:
			return fmt.Errorf("core %d: secondary core set stack %#x", c.index, c.stack)
		}
	}

	if m.serial == nil {
		return nil
	}

	n, err := console.Written()

	if err != nil {
		return err
	}

	if n-m.written != m.serial.Received() {
		return fmt.Errorf("console wrote %d bytes, serial received %d", n-m.written, m.serial.Received())
	}

	return nil
}
