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

// Package bridge time-multiplexes a hardware model (the target) and the test
// protocol (the host).
//
// The target runs in its own goroutine and drives the hardware clock one
// half-cycle at a time. Every TickInterval ticks it yields to the host and
// waits. The host services the mailbox, possibly changes memory, and then
// either resumes the target or halts it. Exactly one side runs between
// handoffs so memory is never accessed by both at once.
//
// The hardware model reaches memory through the bridge, which satisfies
// bus.TargetBus:
//
//	b := bridge.NewBridge(env, mem, bootimage.NewLoader("", base))
//	err := b.Boot()
//	b.AttachModel(model)
//	status, err := b.Run(ctx, host)
//
// The boot image must be injected with Boot() before the target is resumed
// for the first time.
package bridge
