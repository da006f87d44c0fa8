// This file is part of tbsim.
//
// tbsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tbsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tbsim.  If not, see <https://www.gnu.org/licenses/>.

package program

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
	"github.com/jetsetilly/tbsim/logger"
)

// Sentinel error patterns.
const (
	NotSupported = "program: not supported: %v"
	NoSegments   = "program: no loadable segments"
)

// Names of the mailbox symbols.
const (
	SymbolToHost   = "tohost"
	SymbolFromHost = "fromhost"
)

// Segment records where a PT_LOAD segment was written.
type Segment struct {
	Address  uint64
	FileSize uint64
	MemSize  uint64
}

// Program is the result of loading an ELF file into memory.
type Program struct {
	Filename string
	Class    elf.Class

	// the ELF entry point
	Entry uint64

	Segments []Segment

	// all named symbols in the symbol table
	Symbols map[string]uint64
}

// Load an ELF file into memory.
func Load(filename string, mem bus.TargetBus) (*Program, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("program: %v", err)
	}
	defer f.Close()

	prg, err := LoadReader(f, mem)
	if err != nil {
		return nil, err
	}
	prg.Filename = filename

	return prg, nil
}

// LoadReader loads ELF data from an io.ReaderAt into memory.
func LoadReader(r io.ReaderAt, mem bus.TargetBus) (*Program, error) {
	ef, err := elf.NewFile(r)
	if err != nil {
		return nil, curated.Errorf("program: %v", err)
	}
	defer ef.Close()

	// sanity checks on ELF data
	if ef.Machine != elf.EM_RISCV {
		return nil, curated.Errorf(NotSupported, fmt.Sprintf("machine is not RISC-V (%s)", ef.Machine))
	}
	if ef.ByteOrder != binary.LittleEndian {
		return nil, curated.Errorf(NotSupported, "not little-endian")
	}
	if ef.Type != elf.ET_EXEC {
		return nil, curated.Errorf(NotSupported, fmt.Sprintf("not an executable (%s)", ef.Type))
	}

	prg := &Program{
		Class:   ef.Class,
		Entry:   ef.Entry,
		Symbols: make(map[string]uint64),
	}

	for _, p := range ef.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}

		data := make([]byte, p.Memsz)
		if p.Filesz > 0 {
			if p.Filesz > p.Memsz {
				return nil, curated.Errorf("program: segment at %#x has file size larger than memory size", p.Paddr)
			}
			if _, err := io.ReadFull(p.Open(), data[:p.Filesz]); err != nil {
				return nil, curated.Errorf("program: %v", err)
			}
		}

		if err := mem.Write(p.Paddr, data, nil); err != nil {
			return nil, curated.Errorf("program: %v", err)
		}

		prg.Segments = append(prg.Segments, Segment{
			Address:  p.Paddr,
			FileSize: p.Filesz,
			MemSize:  p.Memsz,
		})

		logger.Logf(logger.Allow, "program", "loaded segment %#x to %#x (%d bytes from file)", p.Paddr, p.Paddr+p.Memsz-1, p.Filesz)
	}

	if len(prg.Segments) == 0 {
		return nil, curated.Errorf(NoSegments)
	}

	symbols, err := ef.Symbols()
	if err != nil && !errors.Is(err, elf.ErrNoSymbols) {
		return nil, curated.Errorf("program: %v", err)
	}
	for _, s := range symbols {
		if s.Name != "" {
			prg.Symbols[s.Name] = s.Value
		}
	}

	return prg, nil
}

// Mailbox returns the addresses of the tohost and fromhost symbols. The ok
// value is false if either symbol is missing.
func (prg *Program) Mailbox() (tohost uint64, fromhost uint64, ok bool) {
	tohost, okTo := prg.Symbols[SymbolToHost]
	fromhost, okFrom := prg.Symbols[SymbolFromHost]
	return tohost, fromhost, okTo && okFrom
}

func (prg *Program) String() string {
	return fmt.Sprintf("%s: %s, entry %#x, %d segments", prg.Filename, prg.Class, prg.Entry, len(prg.Segments))
}
