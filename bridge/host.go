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
	"time"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/logger"
)

// Messages for the result of Run().
const (
	SuccessMessage = "[SUCCESS] Program finished successfully"
	FailureMessage = "[FAILURE] Finished with exit code %2d"
)

// Host is serviced at every handoff from the target. It returns true and a
// status value when the run should end.
type Host interface {
	Service(time uint64) (exit bool, status int, err error)
}

// HostFunc allows a function to be used as a Host.
type HostFunc func(time uint64) (bool, int, error)

// Service implements the Host interface.
func (f HostFunc) Service(time uint64) (bool, int, error) {
	return f(time)
}

// Hosts services each Host in turn. The first host to end the run, or to
// return an error, stops the sequence.
type Hosts []Host

// Service implements the Host interface.
func (hs Hosts) Service(time uint64) (bool, int, error) {
	for _, h := range hs {
		exit, status, err := h.Service(time)
		if err != nil || exit {
			return exit, status, err
		}
	}
	return false, 0, nil
}

// Report writes the one line result for the status value.
func Report(output io.Writer, status int) {
	if status == 0 {
		fmt.Fprintln(output, SuccessMessage)
		return
	}
	fmt.Fprintf(output, FailureMessage+"\n", status)
}

// Run the full host protocol. The boot image is injected if that hasn't
// happened already. The target is then resumed and the host serviced at every
// yield until the host ends the run.
//
// The returned status is the status value reported by the host. Any error is
// fatal and the status value should be ignored.
func (b *Bridge) Run(ctx context.Context, host Host) (int, error) {
	if err := b.Boot(); err != nil {
		return 0, err
	}
	defer b.Halt()

	for {
		ev, err := b.resumeWithTimeout(ctx)
		if err != nil {
			return 0, err
		}

		exit, status, err := host.Service(ev.Time)
		if err != nil {
			return 0, curated.Errorf("bridge: %v", err)
		}

		if exit {
			b.Halt()
			logger.Logf(logger.Allow, "bridge", "host ended run at tick %d with status %d", ev.Time, status)
			Report(b.Output, status)
			return status, nil
		}

		if ev.Finished {
			return 0, curated.Errorf(NoExitStatus, ev.Time)
		}
	}
}

// resumes the target with the timeout preference applied to the wait
func (b *Bridge) resumeWithTimeout(ctx context.Context) (Event, error) {
	timeout := b.env.Prefs.Timeout.Get().(time.Duration)
	if timeout <= 0 {
		return b.ResumeTarget(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return b.ResumeTarget(ctx)
}
