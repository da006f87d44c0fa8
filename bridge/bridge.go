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
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/tbsim/bootimage"
	"github.com/jetsetilly/tbsim/bridge/govern"
	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/hardware/memory/bus"
	"github.com/jetsetilly/tbsim/hardware/preferences"
	"github.com/jetsetilly/tbsim/htif"
	"github.com/jetsetilly/tbsim/logger"
	"github.com/jetsetilly/tbsim/program"
	"golang.org/x/sync/errgroup"
)

// Sentinel error patterns.
const (
	NotBooted      = "bridge: boot image has not been injected"
	NoModel        = "bridge: no hardware model attached"
	AlreadyStarted = "bridge: target has already started"
	TargetFinished = "bridge: target has finished"
	IsTerminated   = "bridge: bridge has terminated"
	Deadline       = "bridge: target did not yield: %v"
	ModelError     = "bridge: model error at tick %d: %v"
	ModelPanic     = "bridge: model panic at tick %d: %v"
	ShortData      = "bridge: data of %d bytes is shorter than length of %d bytes"
	BadLength      = "bridge: access length of %d bytes is negative"
	NoExitStatus   = "bridge: target finished at tick %d without an exit status"
)

// Model is the hardware model driven by the target. Eval is called once per
// tick with the current clock and active-low reset. The model reaches memory
// through the bridge.
type Model interface {
	Eval(clk bool, rstn bool) error
	Finished() bool
}

// Event is passed from the target to the host at every handoff.
type Event struct {
	// simulated time of the handoff
	Time uint64

	// the target has stopped and can not be resumed
	Finished bool
}

func (ev Event) String() string {
	if ev.Finished {
		return fmt.Sprintf("finished at tick %d", ev.Time)
	}
	return fmt.Sprintf("yield at tick %d", ev.Time)
}

// Bridge between the target and the host.
type Bridge struct {
	env *environment.Environment
	mem *memory.GlobalMemory

	boot    bootimage.Loader
	elf     string
	prg     *program.Program
	booted  bool
	mailbox htif.Mailbox

	model Model

	// only ever changed by the host
	state govern.State

	// simulated time and the number of interval yields. atomic because the
	// host may look at these after a deadline while the target is still
	// running
	time   atomic.Uint64
	yields atomic.Int64

	// handoff channels. both unbuffered
	yield  chan Event
	resume chan bool

	// closed when the bridge terminates. a target blocked in a handoff
	// returns immediately
	quit     chan struct{}
	quitOnce sync.Once

	// owns the target goroutine. the context is cancelled if the target
	// returns an error
	grp      *errgroup.Group
	grpCtx   context.Context
	started  bool
	finished bool

	// the target did not yield before the deadline and may still be running
	hung bool

	// the one line result of Run() is written here. defaults to os.Stderr
	Output io.Writer
}

var _ bus.TargetBus = (*Bridge)(nil)

// NewBridge is the preferred method of initialisation for the Bridge type.
// The boot image does not need to have been loaded yet.
func NewBridge(env *environment.Environment, mem *memory.GlobalMemory, boot bootimage.Loader) *Bridge {
	b := &Bridge{
		env:    env,
		mem:    mem,
		boot:   boot,
		state:  govern.HostRunning,
		yield:  make(chan Event),
		resume: make(chan bool),
		quit:   make(chan struct{}),
		Output: os.Stderr,
	}
	b.grp, b.grpCtx = errgroup.WithContext(context.Background())
	b.mailbox = htif.Mailbox{
		ToHost:   env.Prefs.ToHost.Get().(uint64),
		FromHost: env.Prefs.FromHost.Get().(uint64),
	}
	return b
}

// AttachProgram names an ELF file to be loaded into memory by Boot(). Must be
// called before Boot().
func (b *Bridge) AttachProgram(filename string) error {
	if b.booted {
		return curated.Errorf(AlreadyStarted)
	}
	b.elf = filename
	return nil
}

// AttachModel sets the hardware model. Must be called before the target is
// started.
func (b *Bridge) AttachModel(model Model) error {
	if b.started {
		return curated.Errorf(AlreadyStarted)
	}
	b.model = model
	return nil
}

// Boot loads and injects the boot image, followed by the program if one has
// been attached. Boot is only performed once. Any error is a configuration
// error and the target must not be started.
func (b *Bridge) Boot() error {
	if b.booted {
		return nil
	}

	if err := b.boot.Load(); err != nil {
		return err
	}
	if err := b.boot.Inject(b.mem); err != nil {
		return err
	}

	if b.elf != "" {
		prg, err := program.Load(b.elf, b.mem)
		if err != nil {
			return err
		}
		b.prg = prg

		if tohost, fromhost, ok := prg.Mailbox(); ok {
			b.mailbox = htif.Mailbox{ToHost: tohost, FromHost: fromhost}
			logger.Logf(logger.Allow, "bridge", "mailbox from program symbols: %s", b.mailbox)
		}
	}

	b.booted = true
	logger.Logf(logger.Allow, "bridge", "entry point is %#x", b.EntryPoint())

	return nil
}

// EntryPoint returns the address the simulated core should start executing
// from. The entry point of a loaded program takes precedence over the entry
// point of the boot image.
func (b *Bridge) EntryPoint() uint64 {
	if b.prg != nil {
		return b.prg.Entry
	}
	return b.boot.Entry()
}

// Mailbox returns the addresses of the tohost and fromhost words.
func (b *Bridge) Mailbox() htif.Mailbox {
	return b.mailbox
}

// Preferences returns the preferences of the simulation instance.
func (b *Bridge) Preferences() *preferences.Preferences {
	return b.env.Prefs
}

// Memory returns the memory being served by the bridge.
func (b *Bridge) Memory() *memory.GlobalMemory {
	return b.mem
}

// State returns the current state of the bridge.
func (b *Bridge) State() govern.State {
	return b.state
}

// Time returns the current simulated time in ticks.
func (b *Bridge) Time() uint64 {
	return b.time.Load()
}

// TimeStamp returns the current simulated time in seconds. A tick is one
// nanosecond.
func (b *Bridge) TimeStamp() float64 {
	return float64(b.time.Load()) * 1e-9
}

// Yields returns the number of times the target has yielded at the end of a
// tick interval.
func (b *Bridge) Yields() int {
	return int(b.yields.Load())
}

func (b *Bridge) setState(state govern.State) {
	if !govern.Transition(b.state, state) {
		logger.Logf(logger.Allow, "bridge", "unexpected state change from %s to %s", b.state, state)
	}
	b.state = state
}

// OnMemoryRead is called by the hardware model for every load.
func (b *Bridge) OnMemoryRead(address uint64, length int) ([]byte, error) {
	if length < 0 {
		return nil, curated.Errorf(BadLength, length)
	}
	if err := b.mem.Check(address, length); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if err := b.mem.Read(address, data); err != nil {
		return nil, err
	}
	return data, nil
}

// OnMemoryWrite is called by the hardware model for every store. Byte i is
// only written if strobe[i] is non-zero. A nil strobe enables every byte.
func (b *Bridge) OnMemoryWrite(address uint64, length int, data []byte, strobe []byte) error {
	if length < 0 {
		return curated.Errorf(BadLength, length)
	}
	if len(data) < length {
		return curated.Errorf(ShortData, len(data), length)
	}
	if len(strobe) > length {
		strobe = strobe[:length]
	}
	return b.mem.Write(address, data[:length], strobe)
}

// Read implements the bus.TargetBus interface.
func (b *Bridge) Read(address uint64, data []byte) error {
	return b.mem.Read(address, data)
}

// Write implements the bus.TargetBus interface.
func (b *Bridge) Write(address uint64, data []byte, strobe []byte) error {
	return b.mem.Write(address, data, strobe)
}

// ResumeTarget hands control to the target and blocks until the target next
// yields or finishes. The first call starts the target.
//
// If the context is done before the target yields the bridge terminates and
// the deadline error is returned. The target goroutine can not be stopped in
// that case and is abandoned.
func (b *Bridge) ResumeTarget(ctx context.Context) (Event, error) {
	switch b.state {
	case govern.Terminated:
		return Event{}, curated.Errorf(IsTerminated)
	case govern.TargetRunning:
		return Event{}, curated.Errorf(AlreadyStarted)
	}

	if !b.booted {
		return Event{}, curated.Errorf(NotBooted)
	}
	if b.model == nil {
		return Event{}, curated.Errorf(NoModel)
	}
	if b.finished {
		return Event{}, curated.Errorf(TargetFinished)
	}

	b.setState(govern.TargetRunning)

	if !b.started {
		b.started = true
		logger.Logf(logger.Allow, "bridge", "starting target (interval %s)", b.env.Prefs.TickInterval.String())
		b.grp.Go(b.target)
	} else {
		b.resume <- true
	}

	select {
	case ev := <-b.yield:
		b.setState(govern.HostRunning)
		b.finished = ev.Finished
		return ev, nil

	case <-b.grpCtx.Done():
		err := b.grp.Wait()
		b.terminate()
		if err == nil {
			err = curated.Errorf(TargetFinished)
		}
		return Event{}, err

	case <-ctx.Done():
		b.hung = true
		b.terminate()
		logger.Logf(logger.Allow, "bridge", "abandoning target at tick %d", b.Time())
		return Event{}, curated.Errorf(Deadline, ctx.Err())
	}
}

// Halt stops a suspended target. The bridge is terminated and can not be
// resumed. Halt can be called more than once.
func (b *Bridge) Halt() {
	b.terminate()
	if b.started && !b.hung {
		_ = b.grp.Wait()
	}
}

func (b *Bridge) terminate() {
	b.quitOnce.Do(func() {
		close(b.quit)
	})
	if b.state != govern.Terminated {
		b.setState(govern.Terminated)
	}
}

// Summary of the bridge. Suitable for printing or for passing to a memory
// visualiser.
type Summary struct {
	State      string
	Time       uint64
	Yields     int
	EntryPoint uint64
	BootImage  string
	BootBase   uint64
	BootSize   int
	BootHash   string
	Program    string
	Mailbox    htif.Mailbox
	Memory     string
	Pages      int
}

// Summary returns a snapshot of the bridge.
func (b *Bridge) Summary() Summary {
	s := Summary{
		State:      b.state.String(),
		Time:       b.Time(),
		Yields:     b.Yields(),
		EntryPoint: b.EntryPoint(),
		BootImage:  b.boot.ShortName(),
		BootBase:   b.boot.Base,
		BootSize:   len(b.boot.Data),
		BootHash:   b.boot.Hash,
		Mailbox:    b.mailbox,
	}
	if b.prg != nil {
		s.Program = b.prg.String()
	}
	if !b.hung {
		s.Memory = b.mem.String()
		s.Pages = b.mem.Pages()
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%s at tick %d after %d yields, entry %#x, %s", s.State, s.Time, s.Yields, s.EntryPoint, s.Mailbox)
}
