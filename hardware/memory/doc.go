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

// Package memory implements the global memory shared by every bus master in
// the simulation: the memory ports of the hardware model and the host.
//
// Memory is a flat, byte addressable space. It is stored sparsely, in pages
// that are allocated on first write, so the full 64 bit address space can be
// used without reserving any storage. Optionally the memory can be bounded to
// a single range, in which case accesses outside of the range are errors.
//
// Writes carry a strobe, one enable per byte. Disabled bytes are left
// untouched, which means a sub-word store never needs a read-modify-write by
// the caller.
//
// There is no locking. Access is serialised by the bridge, which only ever
// lets one of the host or the target run at a time.
package memory
