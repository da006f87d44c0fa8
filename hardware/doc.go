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

// Package hardware is the base package for the simulated target. Its
// sub-packages contain the memory shared by every bus master, the
// preferences of a simulation instance and the hardware models that can be
// driven by the bridge.
//
// A hardware model is anything that implements the bridge.Model interface.
// The model reaches memory through the bridge using the memory/bus.TargetBus
// interface:
//
//	model/idle      touches nothing, for measuring the bridge
//	model/trace     replays recorded bus transactions
//	model/luamodel  a model written in Lua
package hardware
