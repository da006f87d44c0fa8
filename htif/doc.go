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

// Package htif implements the host side of the mailbox protocol used by test
// programs running on the target.
//
// The target writes a request to the tohost word. The host clears tohost,
// services the request and, once the fromhost word reads zero, writes the
// response to fromhost. Requests are encoded as:
//
//	bits 63..56  device
//	bits 55..48  command
//	bits 47..0   payload
//
// Device zero is the syscall device. A payload with bit zero set is an exit
// request with the status in the remaining bits. Any other payload is the
// address of a block of eight words, the first of which is the syscall number
// and the next three the arguments. The result of the syscall is written back
// to the first word of the block.
//
// Device one is the console. Command one writes the low byte of the payload to
// the console output. Command zero reads a byte from the console input. The
// response to a read is deferred until input is available.
package htif
