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

// Package program loads test programs into global memory. Programs are
// statically linked RISC-V ELF executables, either 32 or 64 bit.
//
// Every PT_LOAD segment is written at its physical address with every byte
// enabled. Where the segment is larger in memory than in the file the
// remainder is zero filled.
//
// The addresses of the tohost and fromhost symbols are recorded because they
// locate the mailbox the program uses to talk to the host.
package program
