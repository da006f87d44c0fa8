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

package memory

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
)

// Sentinel error patterns.
const (
	OutOfRange  = "memory: access of %d bytes at %#x is out of range"
	ShortStrobe = "memory: strobe of %d bytes is shorter than data of %d bytes"
)

// PageSize is the unit of allocation.
const PageSize = 4096

type page [PageSize]byte

// GlobalMemory is the single source of truth for all simulated memory
// content.
type GlobalMemory struct {
	env *environment.Environment

	// the bounded range. a size of zero means memory is unbounded
	origin uint64
	size   uint64

	pages map[uint64]*page
}

var _ bus.TargetBus = (*GlobalMemory)(nil)
var _ bus.DebugBus = (*GlobalMemory)(nil)

// NewGlobalMemory is the preferred method of initialisation for the
// GlobalMemory type. The bounds of memory are taken from the environment's
// preferences.
func NewGlobalMemory(env *environment.Environment) *GlobalMemory {
	mem := &GlobalMemory{
		env:    env,
		origin: env.Prefs.MemoryOrigin.Get().(uint64),
		size:   env.Prefs.MemorySize.Get().(uint64),
	}
	mem.Reset()
	return mem
}

// Reset forgets the contents of memory.
func (mem *GlobalMemory) Reset() {
	mem.pages = make(map[uint64]*page)
}

func (mem *GlobalMemory) String() string {
	if mem.size == 0 {
		return fmt.Sprintf("unbounded (%d pages)", len(mem.pages))
	}
	return fmt.Sprintf("%#x to %#x (%d pages)", mem.origin, mem.origin+mem.size-1, len(mem.pages))
}

// Pages returns the number of pages that have been allocated.
func (mem *GlobalMemory) Pages() int {
	return len(mem.pages)
}

// checks that the access is entirely inside memory. zero length accesses are
// always allowed.
func (mem *GlobalMemory) check(address uint64, length int) error {
	if length == 0 {
		return nil
	}

	end := address + uint64(length) - 1
	if end < address {
		return curated.Errorf(OutOfRange, length, address)
	}

	if mem.size == 0 {
		return nil
	}

	if address < mem.origin || end-mem.origin >= mem.size {
		return curated.Errorf(OutOfRange, length, address)
	}

	return nil
}

// Check returns an error if an access of length bytes at address would not be
// entirely inside memory.
func (mem *GlobalMemory) Check(address uint64, length int) error {
	if length < 0 {
		return curated.Errorf(OutOfRange, length, address)
	}
	return mem.check(address, length)
}

// returns the page for the address. if allocate is false and the page does
// not exist then nil is returned.
func (mem *GlobalMemory) page(address uint64, allocate bool) *page {
	n := address / PageSize
	if p, ok := mem.pages[n]; ok {
		return p
	}

	if !allocate && !mem.env.Prefs.RandomState.Get().(bool) {
		return nil
	}

	p := &page{}
	if mem.env.Prefs.RandomState.Get().(bool) {
		mem.env.Random.Fill(p[:], n)
	}
	mem.pages[n] = p

	return p
}

// Read copies len(data) bytes starting at address into data. Unwritten memory
// reads as zero unless the RandomState preference is set.
//
// Implements the bus.TargetBus interface.
func (mem *GlobalMemory) Read(address uint64, data []byte) error {
	if err := mem.check(address, len(data)); err != nil {
		return err
	}

	for i := 0; i < len(data); {
		a := address + uint64(i)
		offset := int(a % PageSize)
		n := min(PageSize-offset, len(data)-i)

		if p := mem.page(a, false); p != nil {
			copy(data[i:i+n], p[offset:offset+n])
		} else {
			clear(data[i : i+n])
		}

		i += n
	}

	return nil
}

// Write stores data[i] at address+i for every byte where strobe[i] is
// non-zero. A nil strobe enables every byte. Nothing is written if the access
// is out of range or the strobe is too short.
//
// Implements the bus.TargetBus interface.
func (mem *GlobalMemory) Write(address uint64, data []byte, strobe []byte) error {
	if strobe != nil && len(strobe) < len(data) {
		return curated.Errorf(ShortStrobe, len(strobe), len(data))
	}
	if err := mem.check(address, len(data)); err != nil {
		return err
	}

	for i := 0; i < len(data); {
		a := address + uint64(i)
		offset := int(a % PageSize)
		n := min(PageSize-offset, len(data)-i)

		// a page is not allocated for a chunk where every byte is disabled
		if strobe != nil && !anyEnabled(strobe[i:i+n]) {
			i += n
			continue
		}

		p := mem.page(a, true)
		if strobe == nil {
			copy(p[offset:offset+n], data[i:i+n])
		} else {
			for j := 0; j < n; j++ {
				if strobe[i+j] != 0 {
					p[offset+j] = data[i+j]
				}
			}
		}

		i += n
	}

	return nil
}

func anyEnabled(strobe []byte) bool {
	for _, s := range strobe {
		if s != 0 {
			return true
		}
	}
	return false
}

// Walk calls fn for every allocated page in address order. The data slice is
// the page itself and must not be retained.
func (mem *GlobalMemory) Walk(fn func(address uint64, data []byte)) {
	keys := make([]uint64, 0, len(mem.pages))
	for n := range mem.pages {
		keys = append(keys, n)
	}
	slices.Sort(keys)

	for _, n := range keys {
		fn(n*PageSize, mem.pages[n][:])
	}
}

// Load writes data at address with every byte enabled.
func (mem *GlobalMemory) Load(address uint64, data []byte) error {
	return mem.Write(address, data, nil)
}

// Peek is the implementation of bus.DebugBus.
func (mem *GlobalMemory) Peek(address uint64) (uint8, error) {
	var b [1]byte
	err := mem.Read(address, b[:])
	return b[0], err
}

// Poke is the implementation of bus.DebugBus.
func (mem *GlobalMemory) Poke(address uint64, value uint8) error {
	return mem.Write(address, []byte{value}, nil)
}

// ReadUint64 reads a little-endian 64 bit word.
func (mem *GlobalMemory) ReadUint64(address uint64) (uint64, error) {
	var b [8]byte
	if err := mem.Read(address, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// WriteUint64 writes a little-endian 64 bit word.
func (mem *GlobalMemory) WriteUint64(address uint64, value uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return mem.Write(address, b[:], nil)
}

// Dump writes a hex dump of the memory range to output. Each line shows
// sixteen bytes preceded by the address of the first byte.
func (mem *GlobalMemory) Dump(output io.Writer, address uint64, length int) error {
	data := make([]byte, length)
	if err := mem.Read(address, data); err != nil {
		return err
	}

	for i := 0; i < len(data); i += 16 {
		line := data[i:min(i+16, len(data))]

		s := strings.Builder{}
		s.WriteString(fmt.Sprintf("%016x ", address+uint64(i)))
		for _, b := range line {
			s.WriteString(fmt.Sprintf(" %02x", b))
		}
		s.WriteString("\n")

		if _, err := io.WriteString(output, s.String()); err != nil {
			return curated.Errorf("memory: %v", err)
		}
	}

	return nil
}
