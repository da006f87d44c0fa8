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

// Package statsview serves runtime statistics of the simulator over HTTP.
// Useful for watching the goroutine and memory behaviour of long
// simulations.
//
// The server is only built when the statsview build tag is present:
//
//	go build -tags statsview .
//
// After launch the statistics are viewable at:
//
//	localhost:12600/debug/statsview
//
// Standard pprof statistics are also served:
//
//	localhost:12600/debug/pprof/
//
// Without the build tag Launch() does nothing and Available() returns false.
package statsview

// Address of the statistics server.
const Address = "localhost:12600"

const path = "/debug/statsview"
