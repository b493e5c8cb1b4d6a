// Copyright 2022 The Armored Witness OS authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
)

// Board image symbols.
const (
	EntrySym     = "_rt0_arm64_raspi3"
	NextStageSym = "kernel_init"
)

var (
	ErrSymbol  = errors.New("symbol not found")
	ErrMachine = errors.New("not an AArch64 image")
	ErrEntry   = errors.New("entry point mismatch")
)

// Image describes the boot relevant symbols of a board image.
type Image struct {
	Entry     uint64
	NextStage uint64
}

func lookupSym(exe *elf.File, name string) (*elf.Symbol, error) {
	syms, err := exe.Symbols()

	if err != nil {
		return nil, err
	}

	for _, sym := range syms {
		if sym.Name == name {
			return &sym, nil
		}
	}

	return nil, fmt.Errorf("%w, %s", ErrSymbol, name)
}

// InspectImage verifies that buf is an AArch64 ELF image entered at the boot
// entry point and linking the next stage initializer.
func InspectImage(buf []byte) (img *Image, err error) {
	exe, err := elf.NewFile(bytes.NewReader(buf))

	if err != nil {
		return
	}

	if exe.Machine != elf.EM_AARCH64 {
		return nil, fmt.Errorf("%w, %s", ErrMachine, exe.Machine)
	}

	entry, err := lookupSym(exe, EntrySym)

	if err != nil {
		return
	}

	if exe.Entry != entry.Value {
		return nil, fmt.Errorf("%w, %#x != %s (%#x)", ErrEntry, exe.Entry, EntrySym, entry.Value)
	}

	next, err := lookupSym(exe, NextStageSym)

	if err != nil {
		return
	}

	return &Image{
		Entry:     entry.Value,
		NextStage: next.Value,
	}, nil
}
