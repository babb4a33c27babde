// Package pcemu wires every peripheral module into one scheduler: a port
// registry built once at construction and a single Tick entry point that
// advances PIT, DMA, the interrupt controllers, the audio generators, and
// the output mixer in that fixed order every cycle. It owns no CPU of its
// own; a driving loop (a test harness, a property fuzzer, or eventually a
// real CPU core) supplies the cycle counts and drains port I/O through
// ReadPort/WritePort.
package pcemu

import (
	"log/slog"

	"github.com/valerio/go-pcemu/internal/apic"
	"github.com/valerio/go-pcemu/internal/bus"
	"github.com/valerio/go-pcemu/internal/config"
	"github.com/valerio/go-pcemu/internal/dma"
	"github.com/valerio/go-pcemu/internal/gameblaster"
	"github.com/valerio/go-pcemu/internal/mixer"
	"github.com/valerio/go-pcemu/internal/mpu401"
	"github.com/valerio/go-pcemu/internal/parallel"
	"github.com/valerio/go-pcemu/internal/pcspeaker"
	"github.com/valerio/go-pcemu/internal/pic"
	"github.com/valerio/go-pcemu/internal/pit"
	"github.com/valerio/go-pcemu/internal/ppi"
	"github.com/valerio/go-pcemu/internal/sbdsp"
	"github.com/valerio/go-pcemu/internal/ssource"

	"periph.io/x/periph/conn/gpio"
)

// Shared-line source ids, one per device that can independently raise a
// line another device also raises (the PIC's IRR3 bookkeeping). Distinct
// from pic.cascadeSourceID, which the pair package reserves for itself.
const (
	sourcePIT = iota
	sourceSoundBlaster
	sourceParallel
)

// Core owns one instance of every peripheral this module implements, the
// bus registry dispatching port I/O across them, and the cross-device
// callback wiring a real motherboard would be etched with.
type Core struct {
	logger *slog.Logger
	cfg    *config.Config

	PIT        *pit.PIT
	DMA        *dma.Pair
	PIC        *pic.Pair
	LAPIC      *apic.LAPIC
	IOAPIC     *apic.IOAPIC
	useAPIC    bool
	PPI        *ppi.PPI
	Speaker    *pcspeaker.Speaker
	SoundBlaster *sbdsp.DSP
	GameBlaster  *gameblaster.Pair
	Parallel     *parallel.Port
	SoundSource  *ssource.Device
	MPU          *mpu401.UART
	Mixer        *mixer.Mixer

	registry *bus.Registry

	refreshToggle bool

	sbDMAPending        byte
	sbDMAHavePending    bool
	sbRecordPending     byte
	sbRecordHavePending bool

	sbLastSample byte
}

// Options configure the parts of Core that aren't driven purely by
// config.Config: whether the APIC pair replaces the legacy PIC pair as the
// interrupt path, and the native tick rate the audio chain runs at.
type Options struct {
	UseAPIC  bool
	NativeHz float64
}

// New builds a fully wired Core from cfg. logger is shared (with per-device
// prefixes left to the caller's slog handler) across every module.
func New(cfg *config.Config, opts Options, logger *slog.Logger) *Core {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.NativeHz <= 0 {
		opts.NativeHz = 14318180.0 / 12.0 // the PIT's own input clock
	}

	c := &Core{
		logger:  logger,
		cfg:     cfg,
		useAPIC: opts.UseAPIC,

		PIT:         pit.New(logger),
		DMA:         dma.NewPair(logger),
		PIC:         pic.NewPair(logger),
		PPI:         ppi.New(logger),
		Speaker:     pcspeaker.New(),
		SoundBlaster: sbdsp.New(2, 1, logger),
		GameBlaster:  gameblaster.New(cfg.SBCompatible, logger),
		Parallel:     parallel.New(logger),
		SoundSource:  ssource.New(opts.NativeHz, logger),
		MPU:          mpu401.New(logger),
		Mixer:        mixer.New(opts.NativeHz, float64(cfg.HostSampleRateHz), cfg.RingBufferFrames, logger),
	}

	if c.useAPIC {
		c.LAPIC = apic.New(0, logger)
		c.IOAPIC = apic.NewIOAPIC(0, logger)
	}

	c.wireCallbacks()
	c.wireMixer()
	c.buildRegistry()

	return c
}

// wireCallbacks hooks up every cross-module line the real chipset would
// etch into the board: PIT edges into the PIC/PPI/speaker, the PPI's
// speaker and A20 lines, and the Sound Blaster's IRQ/DREQ/DMA-byte
// interlock against its configured DMA channel.
func (c *Core) wireCallbacks() {
	c.PIT.OnOutputChange = func(channel int, high bool) {
		switch channel {
		case pit.ChannelTimer:
			c.raiseIRQ(sourcePIT, 0, high)
		case pit.ChannelRefresh:
			if high {
				c.refreshToggle = !c.refreshToggle
			}
		}
	}

	pitChannel2Output := func() gpio.Level { return gpio.Level(c.PIT.Channel(pit.ChannelSpeaker).Output()) }

	c.PPI.PITChannel2Output = pitChannel2Output
	c.PPI.RefreshToggle = func() gpio.Level { return gpio.Level(c.refreshToggle) }
	c.PPI.OnSpeakerGateChange = func(level gpio.Level) {
		c.PIT.Channel(pit.ChannelSpeaker).SetGate(bool(level))
		c.Speaker.SetGate(bool(level))
	}
	c.PPI.OnSpeakerDataChange = func(level gpio.Level) {
		c.Speaker.SetData(bool(level))
	}
	c.Speaker.PITOutput = func() bool { return bool(pitChannel2Output()) }

	sbChannel := c.DMA.Channel(c.cfg.SoundBlasterDMA)
	sbChannel.WriteByte = func(b byte) {
		c.sbDMAPending, c.sbDMAHavePending = b, true
	}
	c.SoundBlaster.ReadDMAByte = func() (byte, bool) {
		if !c.sbDMAHavePending {
			return 0, false
		}
		c.sbDMAHavePending = false
		return c.sbDMAPending, true
	}
	// sbChannel.ReadByte is the recording-direction mirror of WriteByte
	// above: the DMA engine's modeTransferWrite ("read device, write
	// memory") step calls it once per transfer cycle, draining whatever the
	// DSP last digitized via WriteDMAByte.
	sbChannel.ReadByte = func() byte {
		if !c.sbRecordHavePending {
			return 0x80
		}
		c.sbRecordHavePending = false
		return c.sbRecordPending
	}
	c.SoundBlaster.WriteDMAByte = func(b byte) {
		c.sbRecordPending, c.sbRecordHavePending = b, true
	}
	c.SoundBlaster.SetDREQ = func(level bool) {
		c.DMA.SetDREQ(c.cfg.SoundBlasterDMA, level)
	}
	c.SoundBlaster.RaiseIRQ = func() {
		c.raiseIRQ(sourceSoundBlaster, c.cfg.SoundBlasterIRQ, true)
		c.raiseIRQ(sourceSoundBlaster, c.cfg.SoundBlasterIRQ, false)
	}
	c.SoundBlaster.Output = func(sample byte) {
		c.sbLastSample = sample
	}

	c.Parallel.OnDataWrite = c.SoundSource.OnDataWrite
	c.Parallel.OnControlWrite = c.SoundSource.OnControlWrite
	c.Parallel.RaiseIRQ = func() {
		c.raiseIRQ(sourceParallel, c.cfg.ParallelIRQ, true)
		c.raiseIRQ(sourceParallel, c.cfg.ParallelIRQ, false)
	}
}

// raiseIRQ pulses (or levels) line irq on whichever chip owns it, routing
// through the legacy PIC pair or the LAPIC/IOAPIC path depending on how
// Core was configured. high=false after high=true models an edge-triggered
// pulse; callers that need a true level line call only with high and its
// later false when the condition clears.
func (c *Core) raiseIRQ(source, irq int, high bool) {
	if c.useAPIC {
		if high {
			c.IOAPIC.SetLine(irq, true)
		} else {
			c.IOAPIC.SetLine(irq, false)
		}
		return
	}
	chip, line := c.picChipAndLine(irq)
	if chip == nil {
		return
	}
	if high {
		chip.Raise(source, line)
	} else {
		chip.Lower(source, line)
	}
}

func (c *Core) picChipAndLine(irq int) (*pic.Chip, int) {
	if irq < 8 {
		return c.PIC.Master, irq
	}
	if irq < 16 {
		return c.PIC.Slave, irq - 8
	}
	return nil, 0
}

// wireMixer registers every analog-output peripheral as a mixer source.
// Stereo chips (the Game Blaster pair, the Covox's two channels) register
// one mono Source per channel since mixer.Source.Sample returns a single
// lane's instantaneous level.
func (c *Core) wireMixer() {
	c.Mixer.AddSource(&mixer.Source{
		Name: "pc-speaker", Left: true, Right: true,
		Sample: c.Speaker.Sample,
	})
	c.Mixer.AddSource(&mixer.Source{
		Name: "sound-blaster", Left: true, Right: true,
		Sample: func() int16 { return unsignedToSigned(c.sbLastSample) },
	})
	c.Mixer.AddSource(&mixer.Source{
		Name: "game-blaster-left", Left: true,
		Sample: func() int16 { l, _ := c.GameBlaster.Sample(); return clampSample32(l) },
	})
	c.Mixer.AddSource(&mixer.Source{
		Name: "game-blaster-right", Right: true,
		Sample: func() int16 { _, r := c.GameBlaster.Sample(); return clampSample32(r) },
	})
	c.Mixer.AddSource(&mixer.Source{
		Name: "sound-source", Left: true, Right: true,
		Sample: c.SoundSource.SoundSourceSample,
	})
	c.Mixer.AddSource(&mixer.Source{
		Name: "covox-left", Left: true,
		Sample: c.SoundSource.CovoxLeftSample,
	})
	c.Mixer.AddSource(&mixer.Source{
		Name: "covox-right", Right: true,
		Sample: c.SoundSource.CovoxRightSample,
	})
}

func unsignedToSigned(b byte) int16 {
	return (int16(b) - 128) << 8
}

func clampSample32(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
