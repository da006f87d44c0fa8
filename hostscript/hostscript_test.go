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

package hostscript_test

import (
	"testing"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/hostscript"
	"github.com/jetsetilly/tbsim/test"
)

func newMemory(t *testing.T) *memory.GlobalMemory {
	t.Helper()
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	return memory.NewGlobalMemory(env)
}

const script = `
function on_yield(time)
	poke(0x10, peek(0x10) + 1)
	write64(0x20, time)
	if read64(0x20) >= 600 then
		halt(peek(0x10))
	end
end
`

func TestScript(t *testing.T) {
	mem := newMemory(t)
	scr, err := hostscript.NewScriptFromString(mem, script)
	test.DemandSuccess(t, err)
	defer scr.Close()

	for _, tm := range []uint64{200, 400} {
		exit, _, err := scr.Service(tm)
		test.ExpectSuccess(t, err)
		test.ExpectFailure(t, exit)
	}

	exit, status, err := scr.Service(600)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, exit)
	test.ExpectEquality(t, status, 3)

	v, _ := mem.ReadUint64(0x20)
	test.ExpectEquality(t, v, uint64(600))

	// halt is sticky
	exit, status, _ = scr.Service(800)
	test.ExpectSuccess(t, exit)
	test.ExpectEquality(t, status, 3)
}

func TestNoOnYield(t *testing.T) {
	scr, err := hostscript.NewScriptFromString(newMemory(t), "x = 1")
	test.DemandSuccess(t, err)
	defer scr.Close()

	exit, _, err := scr.Service(200)
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, exit)
}

func TestScriptError(t *testing.T) {
	scr, err := hostscript.NewScriptFromString(newMemory(t), `function on_yield() error("boom") end`)
	test.DemandSuccess(t, err)
	defer scr.Close()

	_, _, err = scr.Service(200)
	test.ExpectSuccess(t, curated.Is(err, hostscript.ScriptError))

	_, err = hostscript.NewScriptFromString(newMemory(t), "function (")
	test.ExpectSuccess(t, curated.Is(err, hostscript.ScriptError))
}

func TestMemoryError(t *testing.T) {
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	test.DemandSuccess(t, env.Prefs.MemorySize.Set(0x100))
	mem := memory.NewGlobalMemory(env)

	scr, err := hostscript.NewScriptFromString(mem, `function on_yield() poke(0x1000, 1) end`)
	test.DemandSuccess(t, err)
	defer scr.Close()

	_, _, err = scr.Service(200)
	test.ExpectSuccess(t, curated.Has(err, memory.OutOfRange))
}

func TestWideValues(t *testing.T) {
	mem := newMemory(t)
	test.DemandSuccess(t, mem.WriteUint64(0x100, 0x0101000000000061))

	scr, err := hostscript.NewScriptFromString(mem, `
function on_yield(time)
	write32(0x204, read32(0x100))
	write32(0x200, read32(0x104))
end
`)
	test.DemandSuccess(t, err)
	defer scr.Close()

	_, _, err = scr.Service(200)
	test.ExpectSuccess(t, err)
	v, err := mem.ReadUint64(0x200)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0x0000006101010000))

	for _, s := range []string{
		`function on_yield() read64(0x100) end`,
		`function on_yield() write64(0x200, -1) end`,
		`function on_yield() write64(0x200, 2^60) end`,
		`function on_yield() poke(0x200, 256) end`,
	} {
		scr, err := hostscript.NewScriptFromString(mem, s)
		test.DemandSuccess(t, err)
		_, _, err = scr.Service(200)
		test.ExpectSuccess(t, curated.Is(err, hostscript.ScriptError), s)
		scr.Close()
	}

	v, err = mem.ReadUint64(0x200)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0x0000006101010000))
}
