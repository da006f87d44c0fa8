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

package preferences_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/tbsim/hardware/preferences"
	"github.com/jetsetilly/tbsim/prefs"
	"github.com/jetsetilly/tbsim/test"
)

func TestDefaults(t *testing.T) {
	p := preferences.NewPreferences()
	test.ExpectEquality(t, p.TickInterval.Get().(int), 200)
	test.ExpectEquality(t, p.ResetTicks.Get().(int), 8)
	test.ExpectEquality(t, p.BootAddress.Get().(uint64), uint64(0x1000))
	test.ExpectEquality(t, p.Timeout.Get().(time.Duration), time.Duration(0))
	test.ExpectSuccess(t, strings.Contains(p.String(), "bridge.tickinterval::200\n"))
}

func TestSet(t *testing.T) {
	p := preferences.NewPreferences()
	test.ExpectSuccess(t, p.Set("bridge.tickinterval", "400"))
	test.ExpectEquality(t, p.TickInterval.Get().(int), 400)

	// hooks reject bad values and leave the value unchanged
	test.ExpectFailure(t, p.Set("bridge.tickinterval", 0))
	test.ExpectEquality(t, p.TickInterval.Get().(int), 400)

	test.ExpectFailure(t, p.Set("no.such.key", 1))
}

func TestApplyCommandLine(t *testing.T) {
	p := preferences.NewPreferences()

	prefs.PushCommandLineStack("bridge.tickinterval::50; htif.tohost::0x2000; bridge.timeout::2s; unknown::1")
	test.ExpectSuccess(t, p.ApplyCommandLine())
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "unknown::1")

	test.ExpectEquality(t, p.TickInterval.Get().(int), 50)
	test.ExpectEquality(t, p.ToHost.Get().(uint64), uint64(0x2000))
	test.ExpectEquality(t, p.Timeout.Get().(time.Duration), 2*time.Second)

	prefs.PushCommandLineStack("bridge.resetticks::-1")
	test.ExpectFailure(t, p.ApplyCommandLine())
	prefs.PopCommandLineStack()
}
