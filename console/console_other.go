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

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package console

import (
	"io"
	"os"
	"sync"
)

// Console reads bytes from the input and passes them on.
type Console struct {
	input   io.Reader
	stop    chan struct{}
	stopped sync.Once
}

// Open prepares the input file. Raw mode is not supported on this platform.
func Open(input *os.File) (*Console, error) {
	return &Console{input: input, stop: make(chan struct{})}, nil
}

// IsRaw returns true if the input is a terminal in raw mode.
func (c *Console) IsRaw() bool {
	return false
}

// Start reading in the background. Every byte read is passed to the feed
// function, along with a channel that is closed when the console is closed.
// Carriage returns are translated to newlines.
func (c *Console) Start(feed func(byte, <-chan struct{}) bool) {
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := c.input.Read(buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' {
					b = '\n'
				}
				if !feed(b, c.stop) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
}

// Close stops reading. A read that is already blocked is abandoned.
func (c *Console) Close() {
	c.stopped.Do(func() {
		close(c.stop)
	})
}
