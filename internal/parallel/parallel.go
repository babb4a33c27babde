// Package parallel implements a standard ISA parallel (Centronics/IEEE
// 1284 compatibility-mode) port: the data/status/control register trio at
// 0x378-0x37A (LPT1) or 0x278-0x27A (LPT2), with a strobe-edge IRQ for
// whatever is plugged into the port. Grounded on the combined port/status
// handling and edge-triggered ack bookkeeping documented alongside the
// Sound Source/Covox driver it most commonly carries.
package parallel

import "log/slog"

const (
	offsetData    = 0x0
	offsetStatus  = 0x1
	offsetControl = 0x2
)

// Control register bits.
const (
	ctrlStrobe    = 1 << 0
	ctrlAutoFeed  = 1 << 1
	ctrlInit      = 1 << 2
	ctrlSelect    = 1 << 3
	ctrlIRQEnable = 1 << 4
)

// Port is one parallel port instance.
type Port struct {
	logger *slog.Logger

	data    byte
	control byte

	irqRaised bool

	// OnDataWrite fires whenever the data register is written, giving the
	// byte latched onto the port's 8 output lines.
	OnDataWrite func(value byte)
	// OnControlWrite fires on every control register write with the new
	// value and a mask of the bits that changed, letting an attached
	// device (e.g. the Sound Source) derive its own rising/falling edges.
	OnControlWrite func(value, changed byte)
	// StatusBits supplies the externally-driven status bits (busy, ack,
	// paper-out, select, error); nil reads back a floating-bus default.
	StatusBits func() byte
	// RaiseIRQ fires once per strobe-off edge while IRQs are enabled,
	// modeling the classic "ack interrupt" printer drivers wait on.
	RaiseIRQ func()
}

// New constructs an idle parallel port: no data latched, IRQ disabled.
func New(logger *slog.Logger) *Port {
	if logger == nil {
		logger = slog.Default()
	}
	return &Port{logger: logger}
}

func (p *Port) readStatus() byte {
	if p.StatusBits != nil {
		return p.StatusBits()
	}
	return 0xC0 // floating bus default: ack/busy lines idle high
}

func (p *Port) writeControl(value byte) {
	changed := p.control ^ value
	fellStrobe := changed&ctrlStrobe != 0 && p.control&ctrlStrobe != 0 && value&ctrlStrobe == 0
	p.control = value

	if p.OnControlWrite != nil {
		p.OnControlWrite(value, changed)
	}
	if fellStrobe && value&ctrlIRQEnable != 0 && p.RaiseIRQ != nil {
		p.RaiseIRQ()
	}
}
