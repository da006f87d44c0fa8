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

// Package random provides random numbers for the simulation. Random values
// are used to model uninitialised memory, which on real hardware holds
// whatever the SRAM cells powered up with.
//
// Numbers depend on the simulated time, as reported by the Clock interface,
// and on a salt value supplied by the caller. With the ZeroSeed field set the
// sequence is repeatable between runs, which is useful for tests and for
// comparing simulation runs.
package random
