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

// Package hostscript runs a Lua script on the host side of the bridge. The
// script is called at every yield of the target, after the mailbox has been
// serviced, and can inspect or change memory. Useful for fault injection and
// for emulating polled I/O devices.
//
// The script can define a function on_yield(time). The following functions
// are available to the script:
//
//	peek(address)            returns a byte
//	poke(address, value)
//	read64(address)          returns a number
//	write64(address, value)
//	read32(address)          returns a number
//	write32(address, value)
//	halt(status)             ends the run with the status value
//
// Addresses and values must be unsigned integers no larger than 2^53, the
// largest integer a Lua number holds exactly. Larger 64-bit values are
// accessed as two 32-bit halves with read32() and write32().
package hostscript
