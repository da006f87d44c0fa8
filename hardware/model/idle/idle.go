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

// Package idle implements a hardware model that never touches memory. It is
// useful for measuring the cost of the bridge itself.
package idle

import "fmt"

// Model finishes after a fixed number of ticks.
type Model struct {
	ticks uint64
	limit uint64

	// number of rising clock edges seen while out of reset
	Cycles uint64
}

// NewModel creates a model that finishes after limit ticks. A limit of zero
// means the model never finishes.
func NewModel(limit uint64) *Model {
	return &Model{limit: limit}
}

// Eval implements the bridge.Model interface.
func (m *Model) Eval(clk bool, rstn bool) error {
	m.ticks++
	if clk && rstn {
		m.Cycles++
	}
	return nil
}

// Finished implements the bridge.Model interface.
func (m *Model) Finished() bool {
	return m.limit > 0 && m.ticks >= m.limit
}

func (m *Model) String() string {
	return fmt.Sprintf("idle: %d ticks, %d cycles", m.ticks, m.Cycles)
}
