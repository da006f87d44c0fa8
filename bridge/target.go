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

package bridge

import (
	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/logger"
)

// target goroutine. runs until the model finishes, the tick limit is reached
// or the host halts the bridge
func (b *Bridge) target() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = curated.Errorf(ModelPanic, b.Time(), r)
		}
	}()

	interval := uint64(b.env.Prefs.TickInterval.Get().(int))
	reset := uint64(b.env.Prefs.ResetTicks.Get().(int))
	maxTicks := uint64(b.env.Prefs.MaxTicks.Get().(int))

	var clk bool

	for !b.model.Finished() {
		t := b.time.Load()
		if maxTicks > 0 && t >= maxTicks {
			logger.Logf(logger.Allow, "bridge", "tick limit of %d reached", maxTicks)
			break
		}

		clk = !clk
		if err := b.model.Eval(clk, t >= reset); err != nil {
			return curated.Errorf(ModelError, t, err)
		}

		t = b.time.Add(1)
		if t%interval == 0 {
			b.yields.Add(1)
			if !b.YieldToHost() {
				return nil
			}
		}
	}

	logger.Logf(logger.Allow, "bridge", "target finished at tick %d", b.Time())

	select {
	case b.yield <- Event{Time: b.Time(), Finished: true}:
	case <-b.quit:
	}

	return nil
}

// YieldToHost hands control to the host and blocks until the host resumes the
// target. Returns false if the host halted the bridge instead. Only called
// from the target goroutine.
func (b *Bridge) YieldToHost() bool {
	select {
	case b.yield <- Event{Time: b.Time()}:
	case <-b.quit:
		return false
	}

	select {
	case cont := <-b.resume:
		return cont
	case <-b.quit:
		return false
	}
}
