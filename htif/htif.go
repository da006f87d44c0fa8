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

package htif

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
	"github.com/jetsetilly/tbsim/logger"
)

// Sentinel error patterns.
const (
	ProtocolError = "htif: %v"
	UnknownDevice = "htif: unknown device %d (command %d)"
	BadLength     = "htif: write of %d bytes from %#x is not possible"
)

// Devices.
const (
	DeviceSyscall = 0
	DeviceConsole = 1
)

// Console commands.
const (
	ConsoleGetchar = 0
	ConsolePutchar = 1
)

// Supported syscall numbers.
const (
	SysWrite = 64
	SysExit  = 93
)

// Errno values returned to the target. Negated when written to the syscall
// block.
const (
	EBADF  = 9
	ENOSYS = 38
)

const payloadMask = (1 << 48) - 1

// size of the syscall block in words
const magicWords = 8

// largest buffer accepted by the write syscall and the size of each chunk
// copied from memory to the output
const (
	maxWriteLength = 1 << 24
	writeChunk     = 4096
)

// Mailbox is the location of the tohost and fromhost words.
type Mailbox struct {
	ToHost   uint64
	FromHost uint64
}

func (mb Mailbox) String() string {
	return fmt.Sprintf("tohost %#x, fromhost %#x", mb.ToHost, mb.FromHost)
}

// Encode a request or response word.
func Encode(device uint8, command uint8, payload uint64) uint64 {
	return uint64(device)<<56 | uint64(command)<<48 | payload&payloadMask
}

// Decode a request or response word.
func Decode(v uint64) (device uint8, command uint8, payload uint64) {
	return uint8(v >> 56), uint8(v >> 48), v & payloadMask
}

// ExitRequest returns the tohost value that requests an exit with the
// given status.
func ExitRequest(status int) uint64 {
	return Encode(DeviceSyscall, 0, uint64(status)<<1|1)
}

// HTIF services the mailbox at every yield of the target.
type HTIF struct {
	mem     bus.TargetBus
	mailbox Mailbox

	// console output and the output of the write syscall
	output io.Writer

	// console input. fed by Feed()
	input chan byte

	// getchar requests waiting for input
	deferred []uint64

	// responses waiting for fromhost to be cleared
	responses []uint64

	exited bool
	status int
}

// inputBuffer is the number of bytes that can be fed before Feed() blocks.
const inputBuffer = 256

// NewHTIF is the preferred method of initialisation for the HTIF type.
func NewHTIF(mem bus.TargetBus, mailbox Mailbox, output io.Writer) *HTIF {
	if output == nil {
		output = io.Discard
	}
	return &HTIF{
		mem:     mem,
		mailbox: mailbox,
		output:  output,
		input:   make(chan byte, inputBuffer),
	}
}

// Mailbox returns the mailbox addresses being serviced.
func (h *HTIF) Mailbox() Mailbox {
	return h.mailbox
}

// Feed console input. Safe to call from any goroutine. Blocks while the input
// buffer is full, until either the byte is accepted or the stop channel is
// closed. Returns false if the byte was not accepted.
func (h *HTIF) Feed(b byte, stop <-chan struct{}) bool {
	select {
	case h.input <- b:
		return true
	case <-stop:
		return false
	}
}

// Exited returns true and the status once the target has requested an exit.
func (h *HTIF) Exited() (bool, int) {
	return h.exited, h.status
}

// Service the mailbox. Returns true and the status value once the target has
// requested an exit. Any protocol error is fatal.
func (h *HTIF) Service(time uint64) (bool, int, error) {
	if h.exited {
		return true, h.status, nil
	}

	h.serviceInput()

	tohost, err := h.read64(h.mailbox.ToHost)
	if err != nil {
		return false, 0, curated.Errorf(ProtocolError, err)
	}

	if tohost != 0 {
		if err := h.write64(h.mailbox.ToHost, 0); err != nil {
			return false, 0, curated.Errorf(ProtocolError, err)
		}
		if err := h.request(tohost); err != nil {
			return false, 0, err
		}
		if h.exited {
			logger.Logf(logger.Allow, "htif", "exit with status %d at tick %d", h.status, time)
			return true, h.status, nil
		}
	}

	if err := h.respond(); err != nil {
		return false, 0, curated.Errorf(ProtocolError, err)
	}

	return false, 0, nil
}

func (h *HTIF) request(v uint64) error {
	device, command, payload := Decode(v)

	switch device {
	case DeviceSyscall:
		if command != 0 {
			break
		}
		if payload&1 == 1 {
			h.exited = true
			h.status = int(payload >> 1)
			return nil
		}
		if err := h.syscall(payload); err != nil {
			return curated.Errorf(ProtocolError, err)
		}
		h.responses = append(h.responses, Encode(device, command, 1))
		return nil

	case DeviceConsole:
		switch command {
		case ConsolePutchar:
			if _, err := h.output.Write([]byte{byte(payload)}); err != nil {
				return curated.Errorf(ProtocolError, err)
			}
			h.responses = append(h.responses, Encode(device, command, 0x100|payload&0xff))
			return nil
		case ConsoleGetchar:
			h.deferred = append(h.deferred, v)
			return nil
		}
	}

	return curated.Errorf(UnknownDevice, device, command)
}

// answers deferred getchar requests for as long as there is input
func (h *HTIF) serviceInput() {
	for len(h.deferred) > 0 {
		select {
		case c := <-h.input:
			device, command, _ := Decode(h.deferred[0])
			h.deferred = h.deferred[1:]
			h.responses = append(h.responses, Encode(device, command, 0x100|uint64(c)))
		default:
			return
		}
	}
}

// writes the oldest response to fromhost if the target has consumed the
// previous one
func (h *HTIF) respond() error {
	if len(h.responses) == 0 {
		return nil
	}

	fromhost, err := h.read64(h.mailbox.FromHost)
	if err != nil {
		return err
	}
	if fromhost != 0 {
		return nil
	}

	if err := h.write64(h.mailbox.FromHost, h.responses[0]); err != nil {
		return err
	}
	h.responses = h.responses[1:]

	return nil
}

func (h *HTIF) syscall(address uint64) error {
	var magic [magicWords]uint64
	for i := range magic {
		v, err := h.read64(address + uint64(i*8))
		if err != nil {
			return err
		}
		magic[i] = v
	}

	var result int64

	switch magic[0] {
	case SysWrite:
		fd, buf, n := magic[1], magic[2], magic[3]
		if fd != 1 && fd != 2 {
			result = -EBADF
			break
		}
		if n > maxWriteLength || buf+n < buf {
			return curated.Errorf(BadLength, n, buf)
		}
		if err := h.copyOut(buf, n); err != nil {
			return err
		}
		result = int64(n)

	case SysExit:
		h.exited = true
		h.status = int(magic[1])

	default:
		logger.Logf(logger.Allow, "htif", "unsupported syscall %d", magic[0])
		result = -ENOSYS
	}

	return h.write64(address, uint64(result))
}

// copies n bytes of memory at address to the output
func (h *HTIF) copyOut(address uint64, n uint64) error {
	data := make([]byte, min(n, writeChunk))
	for n > 0 {
		c := data[:min(n, writeChunk)]
		if err := h.mem.Read(address, c); err != nil {
			return err
		}
		if _, err := h.output.Write(c); err != nil {
			return err
		}
		address += uint64(len(c))
		n -= uint64(len(c))
	}
	return nil
}

func (h *HTIF) read64(address uint64) (uint64, error) {
	var b [8]byte
	if err := h.mem.Read(address, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func (h *HTIF) write64(address uint64, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return h.mem.Write(address, b[:], nil)
}
