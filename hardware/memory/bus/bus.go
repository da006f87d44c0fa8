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

// Package bus defines the memory bus concept. Memory is reached by the
// hardware model through the TargetBus, which carries the byte strobes of a
// real bus transaction. The host and any debugging tools use the DebugBus,
// which works a byte at a time with no strobes.
//
//	hardware model ---- target bus ----*
//	                                   |
//	                              GLOBAL MEMORY
//	                                   |
//	host / scripts ---- debug bus -----*
package bus

// TargetBus defines the operations for memory when accessed by the hardware
// model's memory ports. Byte order follows the target convention, which is
// little-endian.
type TargetBus interface {
	// Read copies len(data) bytes starting at address into data
	Read(address uint64, data []byte) error

	// Write stores data[i] at address+i for every i where strobe[i] is
	// non-zero. A nil strobe enables every byte
	Write(address uint64, data []byte, strobe []byte) error
}

// DebugBus defines the meta-operations for memory. Operations that happen
// outside the normal operation of the hardware model, for example the host
// servicing the mailbox.
type DebugBus interface {
	Peek(address uint64) (uint8, error)
	Poke(address uint64, value uint8) error
}
