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

package luamodel

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
	"github.com/jetsetilly/tbsim/logger"
	lua "github.com/yuin/gopher-lua"
)

// Sentinel error patterns.
const (
	ScriptError = "luamodel: %v"
	NoEval      = "luamodel: script does not define eval()"
	BusError    = "luamodel: tick %d: %v"
)

// Model runs a Lua script at every tick.
type Model struct {
	L    *lua.LState
	mem  bus.TargetBus
	eval lua.LValue

	time     uint64
	finished bool

	// the last bus error raised by a binding. the original error is kept so
	// that it can be inspected by the caller
	busErr error
}

// NewModel loads a script from file.
func NewModel(mem bus.TargetBus, filename string, entry uint64) (*Model, error) {
	return newModel(mem, entry, func(L *lua.LState) error {
		return L.DoFile(filename)
	})
}

// NewModelFromString loads a script from a string.
func NewModelFromString(mem bus.TargetBus, script string, entry uint64) (*Model, error) {
	return newModel(mem, entry, func(L *lua.LState) error {
		return L.DoString(script)
	})
}

func newModel(mem bus.TargetBus, entry uint64, load func(L *lua.LState) error) (*Model, error) {
	m := &Model{
		L:   lua.NewState(),
		mem: mem,
	}

	m.L.SetGlobal("ENTRY", lua.LNumber(entry))
	m.L.SetGlobal("read", m.L.NewFunction(m.read))
	m.L.SetGlobal("write", m.L.NewFunction(m.write))
	m.L.SetGlobal("read64", m.L.NewFunction(m.read64))
	m.L.SetGlobal("write64", m.L.NewFunction(m.write64))
	m.L.SetGlobal("read32", m.L.NewFunction(m.read32))
	m.L.SetGlobal("write32", m.L.NewFunction(m.write32))
	m.L.SetGlobal("finish", m.L.NewFunction(m.finish))

	if err := load(m.L); err != nil {
		m.L.Close()
		return nil, curated.Errorf(ScriptError, err)
	}

	m.eval = m.L.GetGlobal("eval")
	if m.eval.Type() != lua.LTFunction {
		m.L.Close()
		return nil, curated.Errorf(NoEval)
	}

	logger.Logf(logger.Allow, "luamodel", "script loaded (entry %#x)", entry)

	return m, nil
}

// Close the Lua state.
func (m *Model) Close() {
	m.L.Close()
}

// Eval implements the bridge.Model interface.
func (m *Model) Eval(clk bool, rstn bool) error {
	err := m.L.CallByParam(lua.P{
		Fn:      m.eval,
		NRet:    0,
		Protect: true,
	}, lua.LBool(clk), lua.LBool(rstn), lua.LNumber(m.time))

	if m.busErr != nil {
		err := curated.Errorf(BusError, m.time, m.busErr)
		m.busErr = nil
		return err
	}
	if err != nil {
		return curated.Errorf(ScriptError, err)
	}

	m.time++
	return nil
}

// Finished implements the bridge.Model interface.
func (m *Model) Finished() bool {
	return m.finished
}

func (m *Model) String() string {
	return fmt.Sprintf("luamodel: tick %d", m.time)
}

func (m *Model) raise(L *lua.LState, err error) {
	m.busErr = err
	L.RaiseError("%v", err)
}

// largest value that a Lua number holds exactly
const maxExact = 1 << 53

// largest table returned by read()
const maxReadLength = 1 << 20

// returns argument n as an unsigned integer no larger than max. raises an
// error if the number is negative, fractional or too large
func checkUint(L *lua.LState, n int, max uint64) uint64 {
	v := float64(L.CheckNumber(n))
	if v < 0 || v != math.Trunc(v) || v > float64(max) {
		L.ArgError(n, fmt.Sprintf("%v is not an unsigned integer no larger than %#x", v, max))
		return 0
	}
	return uint64(v)
}

func (m *Model) read(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)
	length := L.CheckInt(2)
	if length < 0 || length > maxReadLength {
		L.ArgError(2, fmt.Sprintf("length %d is not possible", length))
		return 0
	}

	data := make([]byte, length)
	if err := m.mem.Read(address, data); err != nil {
		m.raise(L, err)
		return 0
	}

	tbl := L.NewTable()
	for _, b := range data {
		tbl.Append(lua.LNumber(b))
	}
	L.Push(tbl)
	return 1
}

func tableBytes(tbl *lua.LTable) []byte {
	data := make([]byte, tbl.Len())
	for i := range data {
		if n, ok := tbl.RawGetInt(i + 1).(lua.LNumber); ok {
			data[i] = byte(n)
		}
	}
	return data
}

func (m *Model) write(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)
	data := tableBytes(L.CheckTable(2))

	var strobe []byte
	if s := L.OptTable(3, nil); s != nil {
		strobe = tableBytes(s)
	}

	if err := m.mem.Write(address, data, strobe); err != nil {
		m.raise(L, err)
	}
	return 0
}

// values that cannot be held exactly by a Lua number raise an error. read32()
// can be used to read the two halves of such a value
func (m *Model) read64(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)

	var b [8]byte
	if err := m.mem.Read(address, b[:]); err != nil {
		m.raise(L, err)
		return 0
	}

	v := binary.LittleEndian.Uint64(b[:])
	if v > maxExact {
		L.RaiseError("read64: value %#x at %#x is too large for a number", v, address)
		return 0
	}

	L.Push(lua.LNumber(v))
	return 1
}

func (m *Model) write64(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)
	value := checkUint(L, 2, maxExact)

	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	if err := m.mem.Write(address, b[:], nil); err != nil {
		m.raise(L, err)
	}
	return 0
}

func (m *Model) read32(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)

	var b [4]byte
	if err := m.mem.Read(address, b[:]); err != nil {
		m.raise(L, err)
		return 0
	}

	L.Push(lua.LNumber(binary.LittleEndian.Uint32(b[:])))
	return 1
}

func (m *Model) write32(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)
	value := checkUint(L, 2, math.MaxUint32)

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(value))
	if err := m.mem.Write(address, b[:], nil); err != nil {
		m.raise(L, err)
	}
	return 0
}

func (m *Model) finish(L *lua.LState) int {
	m.finished = true
	return 0
}
