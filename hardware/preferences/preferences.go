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

package preferences

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/tbsim/curated"
	"github.com/jetsetilly/tbsim/prefs"
)

// Default values.
const (
	DefaultTickInterval = 200
	DefaultResetTicks   = 8
	DefaultBootAddress  = 0x1000
	DefaultToHost       = 0x80001000
	DefaultFromHost     = 0x80001040
)

// Preferences for a simulation instance.
type Preferences struct {
	// number of ticks between host checks
	TickInterval prefs.Int

	// number of ticks reset is held active after simulation start
	ResetTicks prefs.Int

	// the simulation ends after this many ticks. zero means no limit
	MaxTicks prefs.Int

	// how long the host waits for the target to yield. zero means forever
	Timeout prefs.Duration

	// where the boot image is written to
	BootAddress prefs.Address

	// entry point for boot images without a header. zero means the entry
	// point is the boot address
	EntryPoint prefs.Address

	// mailbox addresses. a loaded program with tohost/fromhost symbols takes
	// precedence
	ToHost   prefs.Address
	FromHost prefs.Address

	// bounds of memory. a size of zero means memory is unbounded
	MemoryOrigin prefs.Address
	MemorySize   prefs.Address

	// unwritten memory reads as random data rather than zero
	RandomState prefs.Bool

	keys map[string]prefs.Pref
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() *Preferences {
	p := &Preferences{}

	p.TickInterval.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return curated.Errorf("preferences: tick interval must be positive (%d)", v)
		}
		return nil
	})
	p.ResetTicks.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return curated.Errorf("preferences: reset ticks cannot be negative (%d)", v)
		}
		return nil
	})
	p.MaxTicks.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return curated.Errorf("preferences: max ticks cannot be negative (%d)", v)
		}
		return nil
	})

	p.keys = map[string]prefs.Pref{
		"bridge.tickinterval": &p.TickInterval,
		"bridge.resetticks":   &p.ResetTicks,
		"bridge.maxticks":     &p.MaxTicks,
		"bridge.timeout":      &p.Timeout,
		"boot.address":        &p.BootAddress,
		"boot.entrypoint":     &p.EntryPoint,
		"htif.tohost":         &p.ToHost,
		"htif.fromhost":       &p.FromHost,
		"memory.origin":       &p.MemoryOrigin,
		"memory.size":         &p.MemorySize,
		"memory.randomstate":  &p.RandomState,
	}

	p.SetDefaults()

	return p
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.TickInterval.Set(DefaultTickInterval)
	_ = p.ResetTicks.Set(DefaultResetTicks)
	_ = p.MaxTicks.Set(0)
	_ = p.Timeout.Set("0s")
	_ = p.BootAddress.Set(uint64(DefaultBootAddress))
	_ = p.EntryPoint.Set(uint64(0))
	_ = p.ToHost.Set(uint64(DefaultToHost))
	_ = p.FromHost.Set(uint64(DefaultFromHost))
	_ = p.MemoryOrigin.Set(uint64(0))
	_ = p.MemorySize.Set(uint64(0))
	_ = p.RandomState.Set(false)
}

// Set a preference by key.
func (p *Preferences) Set(key string, v prefs.Value) error {
	pref, ok := p.keys[strings.ToLower(key)]
	if !ok {
		return curated.Errorf("preferences: unknown key (%s)", key)
	}
	if err := pref.Set(v); err != nil {
		return curated.Errorf("preferences: %s: %v", key, err)
	}
	return nil
}

// ApplyCommandLine takes values from the top group of the prefs command line
// stack. Values for keys that are not recognised stay on the stack.
func (p *Preferences) ApplyCommandLine() error {
	for key, pref := range p.keys {
		if ok, v := prefs.GetCommandLinePref(key); ok {
			if err := pref.Set(v); err != nil {
				return curated.Errorf("preferences: %s: %v", key, err)
			}
		}
	}
	return nil
}

func (p *Preferences) String() string {
	keys := make([]string, 0, len(p.keys))
	for k := range p.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s::%s\n", k, p.keys[k]))
	}
	return s.String()
}
