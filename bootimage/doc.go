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

// Package bootimage loads the boot image that seeds the initial instruction
// stream of the simulated target. The image is injected into global memory at
// the boot address before the target runs its first tick.
//
// An image can begin with a sixteen byte header:
//
//	0x00  magic "TBRM"
//	0x04  header version (little-endian uint32, currently 1)
//	0x08  entry point (little-endian uint64)
//
// The header is injected along with the rest of the image. Images without a
// header are raw and take their entry point from the Loader.EntryPoint field,
// or the base address if that is zero.
//
// If no filename is given the image embedded in the binary is used. The
// embedded image parks the core in a wfi loop and expects to be injected at
// the default boot address.
package bootimage
