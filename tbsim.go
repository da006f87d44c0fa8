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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/tbsim/bootimage"
	"github.com/jetsetilly/tbsim/bridge"
	"github.com/jetsetilly/tbsim/console"
	"github.com/jetsetilly/tbsim/digest"
	"github.com/jetsetilly/tbsim/environment"
	"github.com/jetsetilly/tbsim/hardware/memory"
	"github.com/jetsetilly/tbsim/hardware/model/idle"
	"github.com/jetsetilly/tbsim/hardware/model/luamodel"
	"github.com/jetsetilly/tbsim/hardware/model/trace"
	"github.com/jetsetilly/tbsim/hardware/preferences"
	"github.com/jetsetilly/tbsim/hostscript"
	"github.com/jetsetilly/tbsim/htif"
	"github.com/jetsetilly/tbsim/logger"
	"github.com/jetsetilly/tbsim/modalflag"
	"github.com/jetsetilly/tbsim/performance"
	"github.com/jetsetilly/tbsim/prefs"
	"github.com/jetsetilly/tbsim/statsview"
	"github.com/jetsetilly/tbsim/version"
)

// exit values used when the simulation did not produce a status
const (
	exitParseError = 10
	exitError      = 1
)

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout, os.Stderr))
}

// launch the mode selected by the arguments. the returned value is the exit
// status of the process
func launch(args []string, stdout io.Writer, stderr io.Writer) int {
	md := &modalflag.Modes{Output: stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "INFO", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(stderr, "* error: %v\n", err)
		return exitParseError
	}

	var status int

	switch md.Mode() {
	case "RUN":
		status, err = run(md, stdout, stderr)
	case "INFO":
		err = info(md, stdout)
	case "VERSION":
		err = showVersion(md, stdout)
	}

	if err != nil {
		fmt.Fprintf(stderr, "* error in %s mode: %s\n", md, err)
		return exitError
	}

	return status
}

// flags shared by RUN and INFO
type setupFlags struct {
	boot     *string
	hash     *string
	bootAddr *uint64
	entry    *uint64
	elf      *string
	tohost   *uint64
	fromhost *uint64
	prefs    *string
}

func addSetupFlags(md *modalflag.Modes) setupFlags {
	return setupFlags{
		boot:     md.AddString("boot", "", "boot image file or URL. the embedded image is used by default"),
		hash:     md.AddString("hash", "", "expected SHA-1 hash of the boot image"),
		bootAddr: md.AddUint64("bootaddr", preferences.DefaultBootAddress, "address the boot image is written to"),
		entry:    md.AddUint64("entry", 0, "entry point for boot images without a header"),
		elf:      md.AddString("elf", "", "ELF program to load after the boot image"),
		tohost:   md.AddUint64("tohost", preferences.DefaultToHost, "address of the tohost word"),
		fromhost: md.AddUint64("fromhost", preferences.DefaultFromHost, "address of the fromhost word"),
		prefs:    md.AddString("prefs", "", "preferences as key::value pairs separated by ;"),
	}
}

// applies preferences from the -prefs flag and then from any flag that was
// explicitly set on the command line
func applyPreferences(md *modalflag.Modes, p *preferences.Preferences, flags map[string]func() prefs.Value, prefsArg string) error {
	if prefsArg != "" {
		prefs.PushCommandLineStack(prefsArg)
		err := p.ApplyCommandLine()
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "tbsim", "unused preferences: %s", unused)
		}
		if err != nil {
			return err
		}
	}

	var err error
	md.Visit(func(flag string) {
		if err != nil {
			return
		}
		if v, ok := flags[flag]; ok {
			err = p.Set(flagKeys[flag], v())
		}
	})

	return err
}

// the preference key for each flag that maps to a preference
var flagKeys = map[string]string{
	"bootaddr": "boot.address",
	"entry":    "boot.entrypoint",
	"tohost":   "htif.tohost",
	"fromhost": "htif.fromhost",
	"interval": "bridge.tickinterval",
	"reset":    "bridge.resetticks",
	"maxticks": "bridge.maxticks",
	"timeout":  "bridge.timeout",
}

func (sf setupFlags) values() map[string]func() prefs.Value {
	return map[string]func() prefs.Value{
		"bootaddr": func() prefs.Value { return *sf.bootAddr },
		"entry":    func() prefs.Value { return *sf.entry },
		"tohost":   func() prefs.Value { return *sf.tohost },
		"fromhost": func() prefs.Value { return *sf.fromhost },
	}
}

// creates the environment, memory and bridge. the boot image is injected
func setup(md *modalflag.Modes, sf setupFlags, flags map[string]func() prefs.Value) (*bridge.Bridge, error) {
	p := preferences.NewPreferences()
	if err := applyPreferences(md, p, flags, *sf.prefs); err != nil {
		return nil, err
	}

	env := environment.NewEnvironment("", p)
	mem := memory.NewGlobalMemory(env)

	ld := bootimage.NewLoader(*sf.boot, p.BootAddress.Get().(uint64))
	ld.EntryPoint = p.EntryPoint.Get().(uint64)
	ld.Hash = *sf.hash

	b := bridge.NewBridge(env, mem, ld)
	if *sf.elf != "" {
		if err := b.AttachProgram(*sf.elf); err != nil {
			return nil, err
		}
	}

	if err := b.Boot(); err != nil {
		return nil, err
	}

	return b, nil
}

// written to stderr once the boot image has been injected
const bootMessage = "Wrote %d bytes of bootrom to 0x%x\n"

func run(md *modalflag.Modes, stdout io.Writer, stderr io.Writer) (int, error) {
	md.NewMode()
	md.AdditionalHelp("The hardware model for TRACE and LUA is given with -script. The IDLE model\nnever finishes and should be used with -maxticks.")

	sf := addSetupFlags(md)
	model := md.AddString("model", "IDLE", "hardware model: IDLE, TRACE, LUA")
	script := md.AddString("script", "", "trace file or Lua script for the hardware model")
	interval := md.AddInt("interval", preferences.DefaultTickInterval, "number of ticks between host checks")
	reset := md.AddInt("reset", preferences.DefaultResetTicks, "number of ticks reset is held active")
	maxTicks := md.AddInt("maxticks", 0, "end the simulation after this many ticks. zero is no limit")
	timeout := md.AddDuration("timeout", 0, "how long the host waits for the target to yield. zero is forever")
	hostScript := md.AddString("hostscript", "", "Lua script called by the host at every yield")
	log := md.AddBool("log", false, "echo log to stderr")
	useConsole := md.AddBool("console", false, "connect the terminal to the console device")
	memvizFile := md.AddString("memviz", "", "write a graph of the bridge summary to a dot file on exit")
	stats := md.AddBool("statsview", false, "launch the runtime statistics server (requires statsview build tag)")
	showDigest := md.AddBool("digest", false, "print a digest of memory taken at every yield")
	profile := md.AddString("profile", "NONE", "run through the profiler: CPU, MEM, TRACE, ALL (comma separated)")
	quiet := md.AddBool("quiet", false, "do not report the boot image on stderr")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	if len(md.RemainingArgs()) > 0 {
		return 0, fmt.Errorf("too many arguments for %s mode", md)
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return 0, err
	}

	if *log {
		logger.SetEcho(stderr, true)
		defer logger.SetEcho(nil, false)
	}

	if *stats {
		if !statsview.Available() {
			return 0, fmt.Errorf("statsview not available in this build")
		}
		statsview.Launch(stdout)
	}

	flags := sf.values()
	flags["interval"] = func() prefs.Value { return *interval }
	flags["reset"] = func() prefs.Value { return *reset }
	flags["maxticks"] = func() prefs.Value { return *maxTicks }
	flags["timeout"] = func() prefs.Value { return *timeout }

	b, err := setup(md, sf, flags)
	if err != nil {
		return 0, err
	}
	b.Output = stderr

	if !*quiet {
		s := b.Summary()
		fmt.Fprintf(stderr, bootMessage, s.BootSize, s.BootBase)
	}

	if *memvizFile != "" {
		defer func() {
			if err := writeMemviz(*memvizFile, b); err != nil {
				logger.Logf(logger.Allow, "tbsim", "memviz: %v", err)
			}
		}()
	}

	m, err := newModel(*model, *script, b)
	if err != nil {
		return 0, err
	}
	if c, ok := m.(interface{ Close() }); ok {
		defer c.Close()
	}
	if err := b.AttachModel(m); err != nil {
		return 0, err
	}

	h := htif.NewHTIF(b, b.Mailbox(), stdout)

	// the digest is updated before the mailbox is serviced so that the final
	// memory state is included
	var hosts bridge.Hosts
	var dig *digest.Memory
	if *showDigest {
		dig = digest.NewMemory(b.Memory())
		hosts = append(hosts, dig)
	}
	hosts = append(hosts, h)

	if *hostScript != "" {
		scr, err := hostscript.NewScript(b.Memory(), *hostScript)
		if err != nil {
			return 0, err
		}
		defer scr.Close()
		hosts = append(hosts, scr)
	}

	if *useConsole {
		c, err := console.Open(os.Stdin)
		if err != nil {
			return 0, err
		}
		defer c.Close()
		c.Start(h.Feed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var status int
	start := time.Now()

	err = performance.RunProfiler(prf, "run", func() error {
		var err error
		status, err = b.Run(ctx, hosts)
		return err
	})

	elapsed := time.Since(start)
	logger.Logf(logger.Allow, "tbsim", "%d ticks in %s (%.0f ticks per second)", b.Time(), elapsed.Round(time.Millisecond), performance.TickRate(b.Time(), elapsed))

	if dig != nil {
		fmt.Fprintf(stdout, "digest: %s\n", dig.Hash())
	}

	return status, err
}

func newModel(model string, script string, b *bridge.Bridge) (bridge.Model, error) {
	switch strings.ToUpper(model) {
	case "IDLE":
		return idle.NewModel(0), nil
	case "TRACE":
		if script == "" {
			return nil, fmt.Errorf("TRACE model requires -script")
		}
		return trace.Load(b, script)
	case "LUA":
		if script == "" {
			return nil, fmt.Errorf("LUA model requires -script")
		}
		return luamodel.NewModel(b, script, b.EntryPoint())
	}
	return nil, fmt.Errorf("unknown hardware model (%s)", model)
}

func writeMemviz(filename string, b *bridge.Bridge) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	s := b.Summary()
	memviz.Map(f, &s)

	return nil
}

func info(md *modalflag.Modes, stdout io.Writer) error {
	md.NewMode()
	sf := addSetupFlags(md)
	list := md.AddBool("list", false, "list the preferences after the boot information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	b, err := setup(md, sf, sf.values())
	if err != nil {
		return err
	}

	s := b.Summary()
	fmt.Fprintf(stdout, "boot image: %s\n", s.BootImage)
	fmt.Fprintf(stdout, "size: %d bytes\n", s.BootSize)
	fmt.Fprintf(stdout, "hash: %s\n", s.BootHash)
	fmt.Fprintf(stdout, "base: %#x\n", s.BootBase)
	if s.Program != "" {
		fmt.Fprintf(stdout, "program: %s\n", s.Program)
	}
	fmt.Fprintf(stdout, "entry point: %#x\n", s.EntryPoint)
	fmt.Fprintf(stdout, "mailbox: %s\n", s.Mailbox)

	if *list {
		fmt.Fprint(stdout, b.Preferences())
	}

	return nil
}

func showVersion(md *modalflag.Modes, stdout io.Writer) error {
	md.NewMode()
	revision := md.AddBool("revision", false, "display revision information from version control system")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	if *revision {
		fmt.Fprintln(stdout, r)
		return nil
	}
	fmt.Fprintf(stdout, "%s %s\n", version.ApplicationName, v)

	return nil
}
