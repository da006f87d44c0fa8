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

package console

import (
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/logger"
	"github.com/pkg/term/termios"
	"golang.org/x/term"
)

// how long to wait before polling input again when there is nothing to read
const pollInterval = 5 * time.Millisecond

// Console reads bytes from the input and passes them on.
type Console struct {
	fd    int
	raw   bool
	state *term.State

	nonblock bool

	stop    chan struct{}
	done    chan struct{}
	stopped sync.Once
	started bool
}

// Open prepares the input file. The file is put into raw mode if it is a
// terminal.
func Open(input *os.File) (*Console, error) {
	c := &Console{
		fd:   int(input.Fd()),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if term.IsTerminal(c.fd) {
		state, err := term.MakeRaw(c.fd)
		if err != nil {
			return nil, curated.Errorf("console: %v", err)
		}
		c.state = state
		c.raw = true

		// discard anything typed before the simulation started
		if err := termios.Tcflush(uintptr(c.fd), termios.TCIFLUSH); err != nil {
			logger.Logf(logger.Allow, "console", "flush: %v", err)
		}
	}

	if err := syscall.SetNonblock(c.fd, true); err != nil {
		c.restore()
		return nil, curated.Errorf("console: %v", err)
	}
	c.nonblock = true

	return c, nil
}

// IsRaw returns true if the input is a terminal in raw mode.
func (c *Console) IsRaw() bool {
	return c.raw
}

// Start reading in the background. Every byte read is passed to the feed
// function, along with a channel that is closed when the console is closed.
// The feed function returns false if the byte was not accepted, after which
// reading stops. Carriage returns are translated to newlines.
func (c *Console) Start(feed func(byte, <-chan struct{}) bool) {
	c.started = true

	go func() {
		defer close(c.done)

		buf := make([]byte, 1)
		for {
			select {
			case <-c.stop:
				return
			default:
			}

			n, err := syscall.Read(c.fd, buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' {
					b = '\n'
				}
				if !feed(b, c.stop) {
					return
				}
				continue
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || (err == nil && n == 0 && c.raw) {
				time.Sleep(pollInterval)
				continue
			}

			// end of input or an error
			if err != nil {
				logger.Logf(logger.Allow, "console", "%v", err)
			}
			return
		}
	}()
}

// Close stops reading and restores the input to its original state.
func (c *Console) Close() {
	c.stopped.Do(func() {
		close(c.stop)
	})
	if c.started {
		<-c.done
	}
	if c.nonblock {
		_ = syscall.SetNonblock(c.fd, false)
		c.nonblock = false
	}
	c.restore()
}

func (c *Console) restore() {
	if c.state == nil {
		return
	}
	_ = termios.Tcflush(uintptr(c.fd), termios.TCIFLUSH)
	_ = term.Restore(c.fd, c.state)
	c.state = nil
}
