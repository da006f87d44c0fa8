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

package luamodel_test

import (
	"testing"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/hardware/model/luamodel"
	"github.com/jetsetilly/tbsim/test"
)

func newMemory(t *testing.T) *memory.GlobalMemory {
	t.Helper()
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	return memory.NewGlobalMemory(env)
}

const script = `
function eval(clk, rstn, time)
	if time == 0 then
		write64(0x100, ENTRY)
	elseif time == 1 then
		write(0x200, {1, 2, 3, 4}, {1, 0, 1, 0})
	elseif time == 2 then
		local b = read(0x200, 4)
		write64(0x300, b[1] + b[3])
	elseif time == 3 then
		write64(0x308, read64(0x100) + 1)
		finish()
	end
end
`

func TestModel(t *testing.T) {
	mem := newMemory(t)
	m, err := luamodel.NewModelFromString(mem, script, 0x1010)
	test.DemandSuccess(t, err)
	defer m.Close()

	for i := 0; !m.Finished(); i++ {
		test.DemandSuccess(t, m.Eval(i%2 == 0, true))
		test.DemandSuccess(t, i < 10)
	}

	v, _ := mem.ReadUint64(0x100)
	test.ExpectEquality(t, v, uint64(0x1010))

	data := make([]byte, 4)
	test.DemandSuccess(t, mem.Read(0x200, data))
	test.ExpectEquality(t, string(data), string([]byte{1, 0, 3, 0}))

	v, _ = mem.ReadUint64(0x300)
	test.ExpectEquality(t, v, uint64(4))

	v, _ = mem.ReadUint64(0x308)
	test.ExpectEquality(t, v, uint64(0x1011))

	test.ExpectEquality(t, m.String(), "luamodel: tick 4")
}

func TestNoEval(t *testing.T) {
	_, err := luamodel.NewModelFromString(newMemory(t), "x = 1", 0)
	test.ExpectSuccess(t, curated.Is(err, luamodel.NoEval))
}

func TestSyntaxError(t *testing.T) {
	_, err := luamodel.NewModelFromString(newMemory(t), "function eval(", 0)
	test.ExpectSuccess(t, curated.Is(err, luamodel.ScriptError))
}

func TestRuntimeError(t *testing.T) {
	m, err := luamodel.NewModelFromString(newMemory(t), `function eval() error("boom") end`, 0)
	test.DemandSuccess(t, err)
	defer m.Close()

	err = m.Eval(true, true)
	test.ExpectSuccess(t, curated.Is(err, luamodel.ScriptError))
}

func TestBusError(t *testing.T) {
	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	test.DemandSuccess(t, env.Prefs.MemorySize.Set(0x1000))
	mem := memory.NewGlobalMemory(env)

	m, err := luamodel.NewModelFromString(mem, `function eval() write64(0x2000, 1) end`, 0)
	test.DemandSuccess(t, err)
	defer m.Close()

	err = m.Eval(true, true)
	test.ExpectSuccess(t, curated.Is(err, luamodel.BusError))
	test.ExpectSuccess(t, curated.Has(err, memory.OutOfRange))
}

func TestWideValues(t *testing.T) {
	mem := newMemory(t)
	test.DemandSuccess(t, mem.WriteUint64(0x100, 0x0101000000000061))

	// a value too large for a Lua number is read as two halves
	m, err := luamodel.NewModelFromString(mem, `
function eval(clk, rstn, time)
	local lo = read32(0x100)
	local hi = read32(0x104)
	write32(0x200, hi)
	write32(0x204, lo)
	finish()
end
`, 0)
	test.DemandSuccess(t, err)
	defer m.Close()

	test.ExpectSuccess(t, m.Eval(true, true))
	v, err := mem.ReadUint64(0x200)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0x0000006101010000))

	for _, s := range []string{
		`function eval() read64(0x100) end`,
		`function eval() write64(0x200, -1) end`,
		`function eval() write64(0x200, 1.5) end`,
		`function eval() write64(0x200, 2^60) end`,
		`function eval() write32(0x200, 2^32) end`,
		`function eval() read(0x200, -1) end`,
	} {
		m, err := luamodel.NewModelFromString(mem, s, 0)
		test.DemandSuccess(t, err)
		err = m.Eval(true, true)
		test.ExpectSuccess(t, curated.Is(err, luamodel.ScriptError), s)
		m.Close()
	}

	// nothing was written by the failed calls
	v, err = mem.ReadUint64(0x200)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint64(0x0000006101010000))
}
