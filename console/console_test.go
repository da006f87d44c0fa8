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

//go:build linux || darwin || freebsd || netbsd || openbsd

package console_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/jetsetilly/tbsim/console"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/htif"
	"github.com/jetsetilly/tbsim/test"
)

func TestPipe(t *testing.T) {
	r, w, err := os.Pipe()
	test.DemandSuccess(t, err)
	defer r.Close()

	c, err := console.Open(r)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, c.IsRaw())

	received := make(chan byte, 16)
	c.Start(func(b byte, _ <-chan struct{}) bool {
		received <- b
		return true
	})

	_, err = w.Write([]byte("a\r"))
	test.DemandSuccess(t, err)

	var got []byte
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case b := <-received:
			got = append(got, b)
		case <-timeout:
			t.Fatalf("console input not received")
		}
	}
	test.ExpectEquality(t, string(got), "a\n")

	// end of input stops the reader
	w.Close()
	c.Close()
}

func TestCloseWithUnreadInput(t *testing.T) {
	r, w, err := os.Pipe()
	test.DemandSuccess(t, err)
	defer r.Close()
	defer w.Close()

	// more input than the device buffer can hold
	_, err = w.Write(bytes.Repeat([]byte{'x'}, 300))
	test.DemandSuccess(t, err)

	env := environment.NewEnvironment("test", nil)
	env.Normalise()
	mem := memory.NewGlobalMemory(env)
	h := htif.NewHTIF(mem, htif.Mailbox{ToHost: 0x1000, FromHost: 0x1040}, nil)

	c, err := console.Open(r)
	test.DemandSuccess(t, err)
	c.Start(h.Feed)

	// give the reader time to fill the buffer and block
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("console did not close while input was pending")
	}
}
