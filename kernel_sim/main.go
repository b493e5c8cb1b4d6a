// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !raspi3

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"k8s.io/klog/v2"

	"github.com/dyseos/dyseos/kernel"
	"github.com/dyseos/dyseos/mem"
	"github.com/dyseos/dyseos/util"
)

var (
	numCores = flag.Int("cores", maxCores, "Number of simulated cores.")
	bssSize  = flag.Int("bss", mem.SimBSSSize, "Size in bytes of the simulated bss.")
	color    = flag.String("color", "auto", "Serial line colors (auto|always|never).")
	image    = flag.String("image", "", "Inspect a board image instead of booting the simulator.")
)

type stdio struct {
	io.Reader
	io.Writer
}

func newSerial(mode string) (*util.Serial, error) {
	switch mode {
	case "auto":
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return newSerial("always")
		}

		return newSerial("never")
	case "always":
		return util.NewTermSerial(stdio{os.Stdin, os.Stdout}), nil
	case "never":
		return util.NewSerial(os.Stdout), nil
	default:
		return nil, fmt.Errorf("invalid color mode %q", mode)
	}
}

func inspect(path string) {
	buf, err := os.ReadFile(path)

	if err != nil {
		klog.Exitf("Failed to read image %q: %v", path, err)
	}

	img, err := util.InspectImage(buf)

	if err != nil {
		klog.Exitf("Invalid image %q: %v", path, err)
	}

	klog.Infof("%s: %s %#x, %s %#x", path, util.EntrySym, img.Entry, util.NextStageSym, img.NextStage)
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if len(*image) > 0 {
		inspect(*image)
		return
	}

	serial, err := newSerial(*color)

	if err != nil {
		klog.Exitf("Serial: %v", err)
	}

	m, err := newMachine(*numCores, *bssSize, kernel.Init)

	if err != nil {
		klog.Exitf("Failed to create machine: %v", err)
	}

	if err = m.attach(serial); err != nil {
		klog.Exitf("Failed to attach serial: %v", err)
	}

	klog.Infof("Booting %d cores, kernel %s", *numCores, kernel.Version)
	m.run()

	if err = serial.Flush(); err != nil {
		klog.Exitf("Serial: %v", err)
	}

	if err = m.verify(); err != nil {
		klog.Exitf("Verification failed: %v", err)
	}

	klog.Infof("All cores parked, %d bytes received", serial.Received())
}
