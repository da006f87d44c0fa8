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

package random

import (
	"math/rand"
	"time"
)

// the base seed for all random numbers
var baseSeed int64

func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Clock is implemented by anything that can report the current simulated
// time.
type Clock interface {
	Time() uint64
}

// Random is a random number generator that is sensitive to simulated time.
type Random struct {
	clock Clock

	// use zero seed rather than the random base seed
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type. A
// nil clock is allowed and is the same as a clock that is always zero.
func NewRandom(clock Clock) *Random {
	return &Random{
		clock: clock,
	}
}

// SetClock changes the clock used to seed new numbers.
func (rnd *Random) SetClock(clock Clock) {
	rnd.clock = clock
}

func (rnd *Random) rand(salt uint64) *rand.Rand {
	var t uint64
	if rnd.clock != nil {
		t = rnd.clock.Time()
	}
	seed := int64(t*0x9e3779b97f4a7c15 ^ salt)
	if !rnd.ZeroSeed {
		seed += baseSeed
	}
	return rand.New(rand.NewSource(seed))
}

// Intn returns a random number in the range [0, n).
func (rnd *Random) Intn(n int) int {
	return rnd.rand(0).Intn(n)
}

// Fill the byte slice with random data. The salt value distinguishes calls
// made at the same simulated time, for example when filling different memory
// pages.
func (rnd *Random) Fill(p []byte, salt uint64) {
	r := rnd.rand(salt)
	for i := range p {
		p[i] = byte(r.Intn(256))
	}
}
