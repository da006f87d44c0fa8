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

package trace

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
	"github.com/jetsetilly/tbsim/logger"
)

// Sentinel error patterns.
const (
	ParseError = "trace: line %d: %v"
	Mismatch   = "trace: line %d: read %#x: expected %x got %x"
	BusError   = "trace: line %d: bus: %v"
)

// Op is the type of a transaction.
type Op rune

// List of valid transaction types.
const (
	Read   Op = 'R'
	Write  Op = 'W'
	Finish Op = 'F'
)

// Transaction is a single line of a trace.
type Transaction struct {
	Line    int
	Tick    uint64
	Op      Op
	Address uint64
	Length  int

	// data to write or the expected data of a read. may be nil for a read
	Data []byte

	// nil means every byte is enabled
	Strobe []byte
}

func (tr Transaction) String() string {
	switch tr.Op {
	case Read:
		return fmt.Sprintf("%d R %#x %d", tr.Tick, tr.Address, tr.Length)
	case Write:
		return fmt.Sprintf("%d W %#x %x", tr.Tick, tr.Address, tr.Data)
	}
	return fmt.Sprintf("%d F", tr.Tick)
}

// Parse a trace. Transactions must be in tick order.
func Parse(r io.Reader) ([]Transaction, error) {
	var trace []Transaction
	var tick uint64

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		tr, err := parseLine(s)
		if err != nil {
			return nil, curated.Errorf(ParseError, line, err)
		}
		tr.Line = line

		if tr.Tick < tick {
			return nil, curated.Errorf(ParseError, line, "transactions are out of order")
		}
		tick = tr.Tick

		trace = append(trace, tr)
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf("trace: %v", err)
	}

	return trace, nil
}

func parseLine(s string) (Transaction, error) {
	var tr Transaction

	f := strings.Fields(s)
	if len(f) < 2 {
		return tr, fmt.Errorf("too few fields")
	}

	var err error

	tr.Tick, err = strconv.ParseUint(f[0], 0, 64)
	if err != nil {
		return tr, fmt.Errorf("bad tick (%s)", f[0])
	}

	if len(f[1]) != 1 {
		return tr, fmt.Errorf("unknown op (%s)", f[1])
	}
	tr.Op = Op(strings.ToUpper(f[1])[0])

	if tr.Op == Finish {
		if len(f) != 2 {
			return tr, fmt.Errorf("too many fields")
		}
		return tr, nil
	}

	if len(f) < 4 || len(f) > 5 {
		return tr, fmt.Errorf("wrong number of fields")
	}

	tr.Address, err = strconv.ParseUint(f[2], 0, 64)
	if err != nil {
		return tr, fmt.Errorf("bad address (%s)", f[2])
	}

	switch tr.Op {
	case Read:
		tr.Length, err = strconv.Atoi(f[3])
		if err != nil || tr.Length < 0 {
			return tr, fmt.Errorf("bad length (%s)", f[3])
		}
		if len(f) == 5 {
			tr.Data, err = hex.DecodeString(f[4])
			if err != nil {
				return tr, fmt.Errorf("bad expected data: %w", err)
			}
			if len(tr.Data) != tr.Length {
				return tr, fmt.Errorf("expected data is not %d bytes", tr.Length)
			}
		}

	case Write:
		tr.Data, err = hex.DecodeString(f[3])
		if err != nil {
			return tr, fmt.Errorf("bad data: %w", err)
		}
		tr.Length = len(tr.Data)
		if len(f) == 5 {
			tr.Strobe, err = hex.DecodeString(f[4])
			if err != nil {
				return tr, fmt.Errorf("bad strobe: %w", err)
			}
			if len(tr.Strobe) != tr.Length {
				return tr, fmt.Errorf("strobe is not %d bytes", tr.Length)
			}
		}

	default:
		return tr, fmt.Errorf("unknown op (%s)", f[1])
	}

	return tr, nil
}

// Model replays a trace against the memory bus.
type Model struct {
	mem   bus.TargetBus
	trace []Transaction
	next  int
	ticks uint64

	finished bool
}

// NewModel is the preferred method of initialisation for the Model type.
func NewModel(mem bus.TargetBus, trace []Transaction) *Model {
	return &Model{
		mem:   mem,
		trace: trace,
	}
}

// Load a trace from a file and create a new model.
func Load(mem bus.TargetBus, filename string) (*Model, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf("trace: %v", err)
	}
	defer f.Close()

	trace, err := Parse(f)
	if err != nil {
		return nil, err
	}
	logger.Logf(logger.Allow, "trace", "%d transactions in %s", len(trace), filename)

	return NewModel(mem, trace), nil
}

// Eval implements the bridge.Model interface. Transactions are performed at
// the start of their tick.
func (m *Model) Eval(clk bool, rstn bool) error {
	for m.next < len(m.trace) && m.trace[m.next].Tick == m.ticks {
		tr := m.trace[m.next]
		m.next++

		switch tr.Op {
		case Finish:
			m.finished = true
			m.ticks++
			return nil

		case Write:
			if err := m.mem.Write(tr.Address, tr.Data, tr.Strobe); err != nil {
				return curated.Errorf(BusError, tr.Line, err)
			}

		case Read:
			data := make([]byte, tr.Length)
			if err := m.mem.Read(tr.Address, data); err != nil {
				return curated.Errorf(BusError, tr.Line, err)
			}
			if tr.Data != nil && !bytes.Equal(data, tr.Data) {
				return curated.Errorf(Mismatch, tr.Line, tr.Address, tr.Data, data)
			}
		}
	}

	m.ticks++

	if m.next >= len(m.trace) {
		m.finished = true
	}

	return nil
}

// Finished implements the bridge.Model interface.
func (m *Model) Finished() bool {
	return m.finished
}

func (m *Model) String() string {
	return fmt.Sprintf("trace: %d of %d transactions", m.next, len(m.trace))
}
