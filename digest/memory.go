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

package digest

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"hash"
)

// Walker is implemented by memory that can visit its allocated pages in
// address order.
type Walker interface {
	Walk(fn func(address uint64, data []byte))
}

// Memory implements the bridge.Host interface. At every yield the contents of
// memory are hashed. The hashes are chained so the final value depends on the
// state of memory at every yield and not just at the end of the simulation.
type Memory struct {
	mem    Walker
	digest [sha1.Size]byte
	yields int
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory(mem Walker) *Memory {
	return &Memory{mem: mem}
}

// Hash implements the digest.Digest interface.
func (dig *Memory) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the digest.Digest interface.
func (dig *Memory) ResetDigest() {
	clear(dig.digest[:])
	dig.yields = 0
}

// Yields returns the number of times the digest has been updated.
func (dig *Memory) Yields() int {
	return dig.yields
}

// Service implements the bridge.Host interface. The digest never ends the
// run.
func (dig *Memory) Service(time uint64) (bool, int, error) {
	dig.Update(time)
	return false, 0, nil
}

// Update the digest with the current contents of memory.
func (dig *Memory) Update(time uint64) {
	h := sha1.New()

	// chain with the previous digest
	h.Write(dig.digest[:])
	writeUint64(h, time)

	dig.mem.Walk(func(address uint64, data []byte) {
		writeUint64(h, address)
		h.Write(data)
	})

	copy(dig.digest[:], h.Sum(nil))
	dig.yields++
}

func writeUint64(h hash.Hash, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}
