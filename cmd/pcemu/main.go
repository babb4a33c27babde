// Command pcemu drives a pcemu.Core in real time: host audio output, an
// optional tcell status line, and a headless mode for running a fixed
// number of ticks without either. Grounded on the teacher's own
// cmd/jeebie/main.go: a urfave/cli app with a --headless/--frames pair and
// an interactive mode that initializes a terminal-backed frontend.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/valerio/go-pcemu/internal/config"
	"github.com/valerio/go-pcemu/internal/frontend/statusline"
	"github.com/valerio/go-pcemu/internal/hostaudio/sdl2"
	"github.com/valerio/go-pcemu/internal/timing"
	"github.com/valerio/go-pcemu/pcemu"
)

// cpuOscillatorRatio approximates the original 4.77MHz PC's CPU clock as
// one-third of the 14.31818MHz crystal every fixed peripheral here derives
// its own timing from; it only sizes DMA's per-tick cpuCycles argument; no
// actual CPU model exists behind it.
const cpuOscillatorRatio = 3

func main() {
	app := cli.NewApp()
	app.Name = "pcemu"
	app.Usage = "pcemu [options]"
	app.Description = "IBM PC/AT peripheral emulator core: DMA, PIC/APIC, PIT, PPI, Sound Blaster, Game Blaster, Disney Sound Source, MPU-401"
	app.Version = "1.0.0"
	app.Flags = append(config.Flags(),
		cli.BoolFlag{Name: "apic", Usage: "replace the legacy 8259A pair with a LAPIC/IOAPIC path"},
		cli.BoolFlag{Name: "headless", Usage: "run without audio output or a status line"},
		cli.IntFlag{Name: "ticks", Usage: "number of 14.31818MHz oscillator ticks to run in headless mode", Value: timing.TicksPerHostFrame * 60},
	)
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("pcemu exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromContext(c)
	core := pcemu.New(cfg, pcemu.Options{UseAPIC: c.Bool("apic")}, nil)

	if c.Bool("headless") {
		return runHeadless(core, c.Int("ticks"))
	}
	return runInteractive(core, cfg)
}

func runHeadless(core *pcemu.Core, ticks int) error {
	if ticks <= 0 {
		return errors.New("headless mode requires --ticks with a positive value")
	}
	cpuCycles := timing.TicksPerHostFrame / cpuOscillatorRatio
	for remaining := ticks; remaining > 0; remaining -= timing.TicksPerHostFrame {
		n := timing.TicksPerHostFrame
		if remaining < n {
			n = remaining
		}
		core.Tick(uint64(n), cpuCycles*n/timing.TicksPerHostFrame)
	}
	slog.Info("headless run completed", "ticks", ticks)
	return nil
}

func runInteractive(core *pcemu.Core, cfg *config.Config) error {
	audio := sdl2.New(nil)
	if err := audio.Open(core.Mixer.Out, cfg.HostSampleRateHz); err != nil {
		slog.Warn("host audio unavailable, running silent", "error", err)
	} else {
		defer audio.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	_, height := screen.Size()
	line := statusline.New(screen, height-1, nil)

	limiter := timing.NewAdaptiveLimiter()
	cpuCycles := timing.TicksPerHostFrame / cpuOscillatorRatio

	for {
		for screen.HasPendingEvent() {
			switch ev := screen.PollEvent().(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				_, h := screen.Size()
				line.Relocate(h - 1)
			}
		}

		core.Tick(uint64(timing.TicksPerHostFrame), cpuCycles)
		line.Draw(core)
		limiter.WaitForNextFrame()
	}
}
