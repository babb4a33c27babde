// Package ppi implements the AT-class keyboard/system-control interface:
// the 8255-derived port B at 0x61, the keyboard scancode latch at 0x60,
// and the PS/2-style fast A20/reset gate at 0x92. Grounded on the combined
// PPI/keyboard-controller port behaviour of an IBM AT, trimmed to the
// subset the rest of this core actually drives.
package ppi

import (
	"log/slog"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// GateClock is the oscillator the PIT channel 2 gate and the speaker data
// line are clocked against: the same 1.193182MHz input the PIT itself
// divides down, not a rate the PPI produces on its own. Kept here rather
// than in the pit package since it's the figure a board schematic would
// annotate the 8255's speaker lines with.
const GateClock physic.Frequency = 1193182 * physic.Hertz

// PPI owns the handful of discrete system-control lines the chipset and
// keyboard controller expose through port I/O: the PIT channel 2 speaker
// gate/data pair, the A20 gate, and the fast-reset line. Each line is
// surfaced to callers as a gpio.Level, the same logical Low/High a real
// 8255 pin would carry, rather than a bare bool.
type PPI struct {
	logger *slog.Logger

	scancode byte // last byte latched at port 0x60

	controlB byte // system control port B (0x61): see bit layout below
	controlA byte // system control port A (0x92): bit0 fast reset, bit1 A20

	nmiMasked bool // port 0xA0: true once mask bit is set (NMI disabled)

	// OnSpeakerGateChange/OnSpeakerDataChange mirror controlB bits 0/1:
	// gate enables PIT channel 2 counting (clocked at GateClock), data
	// ANDs directly onto the speaker when the gate is closed (bit0=0) or
	// passes the PIT's squarewave when open.
	OnSpeakerGateChange func(level gpio.Level)
	OnSpeakerDataChange func(level gpio.Level)

	// OnA20Change fires whenever the port-0x92 A20 gate bit transitions.
	OnA20Change func(level gpio.Level)
	// OnFastReset fires once when the port-0x92 reset bit is set; the
	// caller is responsible for the actual CPU reset pulse.
	OnFastReset func()

	// PITChannel2Output is read back through controlB bit 5 (AT) / the
	// XT-compatible bit 4/5 pair; nil reads back low.
	PITChannel2Output func() gpio.Level

	// RefreshToggle is read back through controlB bit 4 on AT systems,
	// where the DRAM refresh request line is wired into the PPI for the
	// BIOS's classic "toggle bit" liveness check.
	RefreshToggle func() gpio.Level
}

// New constructs a PPI with the speaker gated off and A20 disabled, the
// documented AT power-on state.
func New(logger *slog.Logger) *PPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &PPI{logger: logger, controlB: 0x3C}
}

// PushScancode latches a new byte for the next 0x60 read, as the keyboard
// controller would on receiving a make/break code.
func (p *PPI) PushScancode(b byte) {
	p.scancode = b
}

func (p *PPI) speakerGate() bool { return p.controlB&0x01 != 0 }
func (p *PPI) speakerData() bool { return p.controlB&0x02 != 0 }

func (p *PPI) setControlB(value byte) {
	prev := p.controlB
	// Bits 0,1 are the speaker gate/data pair; bit 7 acknowledges timer
	// IRQ0 and is never latched. The rest mirror the real part's
	// RAM-parity/IO-check-enable/keyboard-reset bits but have no
	// behavioural effect on this core beyond being readable back.
	p.controlB = value & 0x7F

	if changed := prev&0x01 != value&0x01; changed && p.OnSpeakerGateChange != nil {
		p.OnSpeakerGateChange(gpio.Level(value&0x01 != 0))
	}
	if changed := prev&0x02 != value&0x02; changed && p.OnSpeakerDataChange != nil {
		p.OnSpeakerDataChange(gpio.Level(value&0x02 != 0))
	}
}

func (p *PPI) readControlB() byte {
	v := p.controlB & 0x0F
	if p.RefreshToggle != nil && p.RefreshToggle() == gpio.High {
		v |= 0x10
	}
	if p.PITChannel2Output != nil && p.PITChannel2Output() == gpio.High {
		v |= 0x20
	}
	return v
}

func (p *PPI) setControlA(value byte) {
	prev := p.controlA
	p.controlA = value &^ 0x01 // fast reset is a pulse, not a latched bit

	if a20changed := prev&0x02 != value&0x02; a20changed && p.OnA20Change != nil {
		p.OnA20Change(gpio.Level(value&0x02 != 0))
	}
	if value&0x01 != 0 && p.OnFastReset != nil {
		p.OnFastReset()
	}
}
