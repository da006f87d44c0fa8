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

package govern

// State indicates which side of the bridge is running.
type State int

// List of possible bridge states.
//
// HostRunning is the initial state. The host boots the target memory before
// starting the target for the first time.
//
// Terminated is final. Once entered the target can not be resumed.
const (
	HostRunning State = iota
	TargetRunning
	Terminated
)

func (s State) String() string {
	switch s {
	case HostRunning:
		return "HostRunning"
	case TargetRunning:
		return "TargetRunning"
	case Terminated:
		return "Terminated"
	}

	return ""
}

// Transition returns true if the change from one state to another is
// allowed.
//
// Rules:
//
//  1. HostRunning and TargetRunning alternate
//
//  2. Terminated can be entered from any state but never left
func Transition(from State, to State) bool {
	switch to {
	case TargetRunning:
		return from == HostRunning
	case HostRunning:
		return from == TargetRunning
	case Terminated:
		return true
	}
	return false
}
