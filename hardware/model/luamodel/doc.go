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

// Package luamodel implements a hardware model written in Lua.
//
// The script must define a function eval(clk, rstn, time) which is called
// once per tick. The following functions are available to the script:
//
//	read(address, length)          returns a table of bytes
//	write(address, bytes, strobe)  strobe is optional
//	read64(address)                returns a number
//	write64(address, value)
//	read32(address)                returns a number
//	write32(address, value)
//	finish()                       the model has finished
//
// The global ENTRY holds the entry point of the boot image or program.
//
// Numbers in Lua are float64 values. Addresses and values must be unsigned
// integers no larger than 2^53, otherwise the call raises an error. Larger
// 64-bit values are accessed as two 32-bit halves with read32() and write32().
package luamodel
