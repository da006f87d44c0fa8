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

package program_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/program"
	"github.com/jetsetilly/tbsim/test"
)

const (
	segmentAddress = 0x80000000
	toHostAddress  = 0x80001000
	fromHostAddr   = 0x80001040
)

var segmentData = []byte{
	0x97, 0x02, 0x00, 0x00, 0x93, 0x82, 0x02, 0x00,
	0x73, 0x00, 0x50, 0x10, 0x6f, 0xf0, 0xdf, 0xff,
}

// builds a minimal 64 bit RISC-V executable with one PT_LOAD segment (twice
// as large in memory as in the file) and a symbol table containing the
// mailbox symbols.
func buildELF(t *testing.T, machine elf.Machine, withSymbols bool) []byte {
	t.Helper()

	strtab := []byte("\x00tohost\x00fromhost\x00")
	shstrtab := []byte("\x00.symtab\x00.strtab\x00.shstrtab\x00")

	const (
		phoff       = 64
		dataOff     = phoff + 56
		strtabOff   = dataOff + 16
		shstrtabOff = strtabOff + 17
		symtabOff   = 184
		shoff       = symtabOff + 3*24
	)

	shnum := uint16(4)
	if !withSymbols {
		shnum = 0
	}

	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(machine),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     segmentAddress,
		Phoff:     phoff,
		Ehsize:    64,
		Phentsize: 56,
		Phnum:     1,
		Shentsize: 64,
		Shnum:     shnum,
	}
	if withSymbols {
		hdr.Shoff = shoff
		hdr.Shstrndx = 3
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	prog := elf.Prog64{
		Type:   uint32(elf.PT_LOAD),
		Flags:  uint32(elf.PF_R | elf.PF_X),
		Off:    dataOff,
		Vaddr:  segmentAddress,
		Paddr:  segmentAddress,
		Filesz: uint64(len(segmentData)),
		Memsz:  uint64(len(segmentData) * 2),
		Align:  8,
	}

	b := &bytes.Buffer{}
	w := func(v any) {
		test.DemandSuccess(t, binary.Write(b, binary.LittleEndian, v))
	}

	w(hdr)
	w(prog)
	b.Write(segmentData)
	b.Write(strtab)
	b.Write(shstrtab)

	if !withSymbols {
		return b.Bytes()
	}

	// pad to the symbol table
	b.Write(make([]byte, symtabOff-b.Len()))

	w(elf.Sym64{})
	w(elf.Sym64{Name: 1, Info: elf.ST_INFO(elf.STB_GLOBAL, elf.STT_OBJECT), Shndx: uint16(elf.SHN_ABS), Value: toHostAddress, Size: 8})
	w(elf.Sym64{Name: 8, Info: elf.ST_INFO(elf.STB_GLOBAL, elf.STT_OBJECT), Shndx: uint16(elf.SHN_ABS), Value: fromHostAddr, Size: 8})

	w(elf.Section64{})
	w(elf.Section64{Name: 1, Type: uint32(elf.SHT_SYMTAB), Off: symtabOff, Size: 3 * 24, Link: 2, Info: 1, Addralign: 8, Entsize: 24})
	w(elf.Section64{Name: 9, Type: uint32(elf.SHT_STRTAB), Off: strtabOff, Size: uint64(len(strtab)), Addralign: 1})
	w(elf.Section64{Name: 17, Type: uint32(elf.SHT_STRTAB), Off: shstrtabOff, Size: uint64(len(shstrtab)), Addralign: 1})

	return b.Bytes()
}

func newMemory(t *testing.T) *memory.GlobalMemory {
	t.Helper()
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	return memory.NewGlobalMemory(env)
}

func TestLoad(t *testing.T) {
	mem := newMemory(t)

	// prefill the region that should be zero filled
	test.DemandSuccess(t, mem.Load(segmentAddress+16, bytes.Repeat([]byte{0xff}, 16)))

	fn := filepath.Join(t.TempDir(), "test.elf")
	test.DemandSuccess(t, os.WriteFile(fn, buildELF(t, elf.EM_RISCV, true), 0o644))

	prg, err := program.Load(fn, mem)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, prg.Entry, uint64(segmentAddress))
	test.ExpectEquality(t, prg.Class, elf.ELFCLASS64)
	test.DemandEquality(t, len(prg.Segments), 1)
	test.ExpectEquality(t, prg.Segments[0].MemSize, uint64(32))

	got := make([]byte, 32)
	test.DemandSuccess(t, mem.Read(segmentAddress, got))
	test.ExpectSuccess(t, bytes.Equal(got[:16], segmentData))
	test.ExpectSuccess(t, bytes.Equal(got[16:], make([]byte, 16)))

	tohost, fromhost, ok := prg.Mailbox()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, tohost, uint64(toHostAddress))
	test.ExpectEquality(t, fromhost, uint64(fromHostAddr))
}

func TestNoSymbols(t *testing.T) {
	mem := newMemory(t)
	prg, err := program.LoadReader(bytes.NewReader(buildELF(t, elf.EM_RISCV, false)), mem)
	test.DemandSuccess(t, err)

	_, _, ok := prg.Mailbox()
	test.ExpectFailure(t, ok)
}

func TestWrongMachine(t *testing.T) {
	mem := newMemory(t)
	_, err := program.LoadReader(bytes.NewReader(buildELF(t, elf.EM_ARM, true)), mem)
	test.ExpectSuccess(t, curated.Is(err, program.NotSupported))
	test.ExpectEquality(t, mem.Pages(), 0)
}

func TestNotELF(t *testing.T) {
	mem := newMemory(t)
	_, err := program.LoadReader(bytes.NewReader([]byte("not an elf file")), mem)
	test.ExpectFailure(t, err)
}
