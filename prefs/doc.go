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

// Package prefs provides typed preference values. Each type accepts either
// its native Go type or a string in its Set() function, which means values
// can come from code or from the command line without special handling.
//
// Preferences given on the command line are collected in the command line
// stack. A prefs string has the form:
//
//	key::value; key::value
//
// PushCommandLineStack() parses such a string and GetCommandLinePref()
// removes and returns a value for a key. Anything left over can be reported
// by PopCommandLineStack() as unused.
package prefs
