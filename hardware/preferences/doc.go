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

// Package preferences holds the tunable values of a simulation instance.
// Defaults match the behaviour of the original test-bench: the host is
// checked every 200 ticks and reset is held for the first 8 ticks.
//
// Every value has a key which can be used in a prefs string on the command
// line:
//
//	tbsim run -prefs "bridge.tickinterval::400; memory.randomstate::true"
package preferences
