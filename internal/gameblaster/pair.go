package gameblaster

import "log/slog"

// Pair is the CT-1302 Game Blaster/CMS card: two independent SAA-1099s at
// base+0/1 (left) and base+2/3 (right), plus the base+0x0A/base+0x0B
// "are you there" detection pair some drivers (and the Sound Blaster's
// CMS-compatible mode) probe before touching the chips proper.
type Pair struct {
	logger *slog.Logger

	Left, Right *Chip

	// SBCompatible resolves the open question over the detection ports:
	// a bare CMS card leaves them floating (always read back 0xFF), while
	// a Sound Blaster's built-in CMS section latches whatever was last
	// written so the detection routine can read its own probe byte back.
	SBCompatible bool
	detectLatch  byte
}

// New constructs a Game Blaster pair with both chips silent.
func New(sbCompatible bool, logger *slog.Logger) *Pair {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pair{logger: logger, Left: newChip(), Right: newChip(), SBCompatible: sbCompatible}
}

// Tick advances both chips together; they share the same master clock.
func (p *Pair) Tick(n int) {
	p.Left.Tick(n)
	p.Right.Tick(n)
}

// Sample sums both chips' stereo output for the mixer tap.
func (p *Pair) Sample() (left, right int32) {
	l1, r1 := p.Left.Sample()
	l2, r2 := p.Right.Sample()
	return l1 + l2, r1 + r2
}

// ReadPort implements bus.PortDevice for base+0x00..0x03 and base+0x0A/0x0B.
func (p *Pair) ReadPort(base, port uint16) (bool, byte) {
	switch port - base {
	case 0x0A, 0x0B:
		if p.SBCompatible {
			return true, p.detectLatch
		}
		return true, 0xFF
	default:
		return false, 0
	}
}

// WritePort implements bus.PortDevice for the same footprint.
func (p *Pair) WritePort(base, port uint16, value byte) bool {
	switch port - base {
	case 0x00:
		p.Left.writeAddress(value)
	case 0x01:
		p.Left.writeData(value)
	case 0x02:
		p.Right.writeAddress(value)
	case 0x03:
		p.Right.writeData(value)
	case 0x0A, 0x0B:
		p.detectLatch = value
	default:
		return false
	}
	return true
}
