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

// Package logger is the central log for the test-bench. Entries are grouped
// by a tag, usually the name of the subsystem doing the logging:
//
//	logger.Logf(logger.Allow, "bootimage", "wrote %d bytes of bootrom to %#x", n, base)
//
// Consecutive identical entries are folded into a single entry with a repeat
// count. This is useful for messages produced every time the host is
// resumed.
//
// Logging is gated by the Permission interface. The Allow value always
// permits logging. Other implementations decide for themselves, for example
// the host might prohibit logging from a noisy hardware model.
//
// The log is not echoed anywhere by default. Use SetEcho() to send new
// entries to an io.Writer as they arrive.
package logger
