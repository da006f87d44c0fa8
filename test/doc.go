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

// Package test removes common boilerplate from the tests in this project.
//
// The Expect* functions record a test error but allow the test to continue.
// The Demand* functions stop the test immediately and should be used when the
// rest of the test makes no sense if the condition fails. For example, checking
// the length of a slice read from memory before indexing into it.
//
// Success and failure are interpreted according to the type of the value:
//
//	bool  -> true is success
//	error -> nil is success
//
// An untyped nil is considered a success because that is how the absence of
// an error is usually returned.
//
// The CompareWriter type implements io.Writer and captures output so it can
// be compared against an expected string.
package test
