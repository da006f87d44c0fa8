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

package hostscript

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
	ScriptError = "hostscript: %v"
	MemoryError = "hostscript: memory: %v"
)

// Memory is the host's view of memory.
type Memory interface {
	bus.DebugBus
	ReadUint64(address uint64) (uint64, error)
	WriteUint64(address uint64, value uint64) error
}

// Script implements the bridge.Host interface.
type Script struct {
	L   *lua.LState
	mem Memory

	onYield lua.LValue

	halted bool
	status int

	memErr error
}

// NewScript loads a script from file.
func NewScript(mem Memory, filename string) (*Script, error) {
	return newScript(mem, func(L *lua.LState) error {
		return L.DoFile(filename)
	})
}

// NewScriptFromString loads a script from a string.
func NewScriptFromString(mem Memory, script string) (*Script, error) {
	return newScript(mem, func(L *lua.LState) error {
		return L.DoString(script)
	})
}

func newScript(mem Memory, load func(L *lua.LState) error) (*Script, error) {
	scr := &Script{
		L:   lua.NewState(),
		mem: mem,
	}

	scr.L.SetGlobal("peek", scr.L.NewFunction(scr.peek))
	scr.L.SetGlobal("poke", scr.L.NewFunction(scr.poke))
	scr.L.SetGlobal("read64", scr.L.NewFunction(scr.read64))
	scr.L.SetGlobal("write64", scr.L.NewFunction(scr.write64))
	scr.L.SetGlobal("read32", scr.L.NewFunction(scr.read32))
	scr.L.SetGlobal("write32", scr.L.NewFunction(scr.write32))
	scr.L.SetGlobal("halt", scr.L.NewFunction(scr.halt))

	if err := load(scr.L); err != nil {
		scr.L.Close()
		return nil, curated.Errorf(ScriptError, err)
	}

	scr.onYield = scr.L.GetGlobal("on_yield")
	if scr.onYield.Type() != lua.LTFunction {
		logger.Log(logger.Allow, "hostscript", "script does not define on_yield()")
		scr.onYield = nil
	}

	return scr, nil
}

// Close the Lua state.
func (scr *Script) Close() {
	scr.L.Close()
}

// Service implements the bridge.Host interface.
func (scr *Script) Service(time uint64) (bool, int, error) {
	if scr.halted {
		return true, scr.status, nil
	}
	if scr.onYield == nil {
		return false, 0, nil
	}

	err := scr.L.CallByParam(lua.P{
		Fn:      scr.onYield,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(time))

	if scr.memErr != nil {
		err := curated.Errorf(MemoryError, scr.memErr)
		scr.memErr = nil
		return false, 0, err
	}
	if err != nil {
		return false, 0, curated.Errorf(ScriptError, err)
	}

	if scr.halted {
		logger.Logf(logger.Allow, "hostscript", "halt with status %d at tick %d", scr.status, time)
		return true, scr.status, nil
	}

	return false, 0, nil
}

func (scr *Script) raise(L *lua.LState, err error) {
	scr.memErr = err
	L.RaiseError("%v", err)
}

// largest integer a Lua number holds exactly
const maxExact = 1 << 53

// returns argument n as an unsigned integer no larger than max
func checkUint(L *lua.LState, n int, max uint64) uint64 {
	v := float64(L.CheckNumber(n))
	if v < 0 || v != math.Trunc(v) || v > float64(max) {
		L.ArgError(n, fmt.Sprintf("%v is not an unsigned integer no larger than %#x", v, max))
		return 0
	}
	return uint64(v)
}

func (scr *Script) peek(L *lua.LState) int {
	v, err := scr.mem.Peek(checkUint(L, 1, maxExact))
	if err != nil {
		scr.raise(L, err)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (scr *Script) poke(L *lua.LState) int {
	if err := scr.mem.Poke(checkUint(L, 1, maxExact), uint8(checkUint(L, 2, math.MaxUint8))); err != nil {
		scr.raise(L, err)
	}
	return 0
}

func (scr *Script) read64(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)
	v, err := scr.mem.ReadUint64(address)
	if err != nil {
		scr.raise(L, err)
		return 0
	}
	if v > maxExact {
		L.RaiseError("read64: value %#x at %#x is too large for a number", v, address)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (scr *Script) write64(L *lua.LState) int {
	if err := scr.mem.WriteUint64(checkUint(L, 1, maxExact), checkUint(L, 2, maxExact)); err != nil {
		scr.raise(L, err)
	}
	return 0
}

// the 32-bit accessors work a byte at a time through the debug bus
func (scr *Script) read32(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)

	var b [4]byte
	for i := range b {
		v, err := scr.mem.Peek(address + uint64(i))
		if err != nil {
			scr.raise(L, err)
			return 0
		}
		b[i] = v
	}

	L.Push(lua.LNumber(binary.LittleEndian.Uint32(b[:])))
	return 1
}

func (scr *Script) write32(L *lua.LState) int {
	address := checkUint(L, 1, maxExact)
	value := checkUint(L, 2, math.MaxUint32)

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(value))
	for i := range b {
		if err := scr.mem.Poke(address+uint64(i), b[i]); err != nil {
			scr.raise(L, err)
			return 0
		}
	}
	return 0
}

func (scr *Script) halt(L *lua.LState) int {
	scr.halted = true
	scr.status = L.OptInt(1, 0)
	return 0
}
