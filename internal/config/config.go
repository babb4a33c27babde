// Package config centralizes the command-line-configurable wiring of the
// core: port bases, IRQ/DMA channel assignments, and the handful of open
// hardware questions (like Game Blaster/Sound Blaster CMS compatibility)
// that real BIOS-era software expected a jumper or a driver switch to
// answer. Parsed from urfave/cli flags the same way the terminal frontend
// parses its ROM path flag.
package config

import "github.com/urfave/cli"

// Config holds every user-tunable wiring decision the core package needs
// before it can build its device graph.
type Config struct {
	SoundBlasterBase uint16
	SoundBlasterIRQ  int
	SoundBlasterDMA  int
	SoundBlasterHDMA int // 16-bit/high DMA channel, SB16-class cards only

	GameBlasterBase uint16
	// SBCompatible resolves the Game Blaster detection-port open question:
	// true models a Sound Blaster's built-in CMS section (the 0x0A/0x0B
	// probe bytes latch), false models a bare CT-1302 card (they float).
	SBCompatible bool

	ParallelBase uint16
	ParallelIRQ  int

	MPUBase uint16

	HostSampleRateHz int
	RingBufferFrames int

	LogLevel string
}

// Default returns the conventional IBM-compatible wiring: Sound Blaster
// at 0x220/IRQ5/DMA1, Game Blaster at 0x220, LPT1 at 0x378/IRQ7, MPU-401
// at 0x330.
func Default() *Config {
	return &Config{
		SoundBlasterBase: 0x220,
		SoundBlasterIRQ:  5,
		SoundBlasterDMA:  1,
		SoundBlasterHDMA: 5,

		GameBlasterBase: 0x220,
		SBCompatible:    false,

		ParallelBase: 0x378,
		ParallelIRQ:  7,

		MPUBase: 0x330,

		HostSampleRateHz: 44100,
		RingBufferFrames: 4096,

		LogLevel: "info",
	}
}

// Flags returns the urfave/cli flag set for every tunable above, each
// defaulted from Default() so an unset flag reproduces stock wiring.
func Flags() []cli.Flag {
	d := Default()
	return []cli.Flag{
		cli.IntFlag{Name: "sb-base", Value: int(d.SoundBlasterBase), Usage: "Sound Blaster DSP base port"},
		cli.IntFlag{Name: "sb-irq", Value: d.SoundBlasterIRQ, Usage: "Sound Blaster IRQ line"},
		cli.IntFlag{Name: "sb-dma", Value: d.SoundBlasterDMA, Usage: "Sound Blaster 8-bit DMA channel"},
		cli.IntFlag{Name: "sb-hdma", Value: d.SoundBlasterHDMA, Usage: "Sound Blaster 16-bit DMA channel"},
		cli.IntFlag{Name: "gb-base", Value: int(d.GameBlasterBase), Usage: "Game Blaster/CMS base port"},
		cli.BoolFlag{Name: "sb-compatible-cms", Usage: "model the Game Blaster detection ports as SB-integrated (latching) rather than a bare CMS card (floating)"},
		cli.IntFlag{Name: "lpt-base", Value: int(d.ParallelBase), Usage: "parallel port base"},
		cli.IntFlag{Name: "lpt-irq", Value: d.ParallelIRQ, Usage: "parallel port IRQ line"},
		cli.IntFlag{Name: "mpu-base", Value: int(d.MPUBase), Usage: "MPU-401 base port"},
		cli.IntFlag{Name: "host-rate", Value: d.HostSampleRateHz, Usage: "host audio output sample rate"},
		cli.IntFlag{Name: "ring-frames", Value: d.RingBufferFrames, Usage: "mixer output ring buffer size, in stereo frames"},
		cli.StringFlag{Name: "log-level", Value: d.LogLevel, Usage: "debug, info, warn, or error"},
	}
}

// FromContext builds a Config from a parsed cli.Context.
func FromContext(c *cli.Context) *Config {
	return &Config{
		SoundBlasterBase: uint16(c.Int("sb-base")),
		SoundBlasterIRQ:  c.Int("sb-irq"),
		SoundBlasterDMA:  c.Int("sb-dma"),
		SoundBlasterHDMA: c.Int("sb-hdma"),

		GameBlasterBase: uint16(c.Int("gb-base")),
		SBCompatible:    c.Bool("sb-compatible-cms"),

		ParallelBase: uint16(c.Int("lpt-base")),
		ParallelIRQ:  c.Int("lpt-irq"),

		MPUBase: uint16(c.Int("mpu-base")),

		HostSampleRateHz: c.Int("host-rate"),
		RingBufferFrames: c.Int("ring-frames"),

		LogLevel: c.String("log-level"),
	}
}
