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

// Package curated wraps the plain Go error type with a pattern that can be
// tested later. An error created with Errorf() remembers the pattern it was
// created with, so callers can ask what went wrong without comparing
// formatted strings:
//
//	err := curated.Errorf(memory.OutOfRange, addr)
//
//	if curated.Is(err, memory.OutOfRange) {
//		...
//	}
//
// Has() searches the chain of wrapped curated errors for a pattern, so an
// error surfacing from the bridge can still be identified as originating in
// the memory package:
//
//	err = curated.Errorf("bridge: %v", err)
//	curated.Has(err, memory.OutOfRange) // true
//	curated.Is(err, memory.OutOfRange)  // false
//
// The Error() string of a curated error is normalised. Chains are made of
// parts separated by ": " and adjacent duplicate parts are collapsed. This
// means a package can prefix every error it returns without worrying whether
// the error it is wrapping already carries the same prefix:
//
//	bridge: bridge: target did not yield
//
// becomes
//
//	bridge: target did not yield
//
// Sentinel errors are expressed as exported pattern constants and tested
// with Is() or Has().
package curated
