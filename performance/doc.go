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

// Package performance contains helper functions relating to the performance
// of the simulator.
//
// RunProfiler() runs a function through any combination of the CPU profiler,
// the memory profiler and the execution tracer. The profiles are written to
// files named after a prefix, for example "run_cpu.profile".
//
// TickRate() calculates the number of simulated ticks per second of wall
// clock time.
package performance
