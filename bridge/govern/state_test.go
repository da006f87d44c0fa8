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

package govern_test

import (
	"testing"

	"github.com/jetsetilly/tbsim/bridge/govern"
	"github.com/jetsetilly/tbsim/test"
)

func TestTransition(t *testing.T) {
	test.ExpectSuccess(t, govern.Transition(govern.HostRunning, govern.TargetRunning))
	test.ExpectSuccess(t, govern.Transition(govern.TargetRunning, govern.HostRunning))
	test.ExpectSuccess(t, govern.Transition(govern.TargetRunning, govern.Terminated))
	test.ExpectSuccess(t, govern.Transition(govern.HostRunning, govern.Terminated))
	test.ExpectFailure(t, govern.Transition(govern.Terminated, govern.HostRunning))
	test.ExpectFailure(t, govern.Transition(govern.Terminated, govern.TargetRunning))
	test.ExpectFailure(t, govern.Transition(govern.HostRunning, govern.HostRunning))
}

func TestString(t *testing.T) {
	test.ExpectEquality(t, govern.HostRunning.String(), "HostRunning")
	test.ExpectEquality(t, govern.TargetRunning.String(), "TargetRunning")
	test.ExpectEquality(t, govern.Terminated.String(), "Terminated")
	test.ExpectEquality(t, govern.State(99).String(), "")
}
