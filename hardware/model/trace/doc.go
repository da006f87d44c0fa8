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

// Package trace implements a hardware model that replays a recorded list of
// bus transactions.
//
// A trace is a text file with one transaction per line. Blank lines and lines
// beginning with # are ignored:
//
//	# tick op address arguments
//	10 W 0x80000000 efbeadde
//	12 W 0x80000000 00000011 00000001
//	20 R 0x80000000 4 efbead11
//	400 W 0x80001000 0100000000000000
//	410 F
//
// The tick is the number of evaluations made by the model before the
// transaction is performed. A write takes the data as hex and an optional
// strobe, also as hex, with one byte per data byte. A read takes a length and
// optionally the expected data. A read that does not match the expected data
// is an error. F finishes the model. A trace without F finishes once every
// transaction has been performed.
package trace
