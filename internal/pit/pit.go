package pit

import "log/slog"

// Channel indices and their conventional wiring on an AT-class board.
const (
	ChannelTimer   = 0 // IRQ0
	ChannelRefresh = 1 // DRAM refresh request, unused past the XT era
	ChannelSpeaker = 2 // gated by PPI port 0x61 bit 0, output read at bit 5
)

const readBackSelect = 0x3

// PIT is one 8253/8254: three counters sharing a single command port plus
// three data ports, at 0x40-0x43 for the primary chip (a second chip, where
// present, is aliased at 0x48-0x4B on some chipsets).
type PIT struct {
	logger   *slog.Logger
	channels [3]*Channel

	// OnOutputChange is called whenever a channel's OUT pin transitions;
	// the core wires channel 0 to the PIC's IRQ0 line and channel 2 to the
	// PC speaker's gate input.
	OnOutputChange func(channel int, high bool)
}

// New constructs a PIT with channel 0/1's gates tied high and channel 2's
// gate initially low (it follows the PPI's speaker-gate bit).
func New(logger *slog.Logger) *PIT {
	if logger == nil {
		logger = slog.Default()
	}
	p := &PIT{logger: logger}
	p.channels[0] = newChannel(true)
	p.channels[1] = newChannel(true)
	p.channels[2] = newChannel(false)
	return p
}

// Channel exposes one counter for direct gate control (e.g. the PPI driving
// channel 2) or output inspection (e.g. a PC speaker mixer tap).
func (p *PIT) Channel(i int) *Channel {
	return p.channels[i]
}

// readOffset services one of the four PIT ports: 0x40-0x42 are per-counter
// data, 0x43 (the command port) is write-only and returns 0xFF on read.
func (p *PIT) readOffset(offset int) byte {
	if offset == 3 {
		return 0xFF
	}
	return p.channels[offset].readData()
}

// writeOffset services a write to one of the four PIT ports.
func (p *PIT) writeOffset(offset int, value byte) {
	if offset == 3 {
		p.writeCommand(value)
		return
	}
	c := p.channels[offset]
	if c.writeData(value) {
		c.armed = true
		p.reloadOrArm(offset)
	}
}

func (p *PIT) writeCommand(value byte) {
	sel := (value >> 6) & 0x3
	if sel == readBackSelect {
		p.readBack(value)
		return
	}
	rw := (value >> 4) & 0x3
	if rw == rwLatch {
		p.channels[sel].latchCount()
		return
	}
	mode := (value >> 1) & 0x7
	if mode > 5 {
		mode &= 0x3 // modes 6-7 alias 2-3 on real hardware
	}
	bcd := value&0x1 != 0
	c := p.channels[sel]
	wasHigh := c.output
	c.setControl(rw, mode, bcd)
	nowHigh := c.output
	c.output = wasHigh // let setOutput see the transition and notify
	p.setOutput(int(sel), nowHigh)
}

// readBack implements the 8254-only read-back command: bit 5 clear selects
// a count latch, bit 4 clear selects a status latch, independently for each
// counter whose select bit (2,1,0) is set.
func (p *PIT) readBack(value byte) {
	latchCount := value&0x20 == 0
	latchStatus := value&0x10 == 0
	for i := 0; i < 3; i++ {
		if value&(1<<uint(2+i)) == 0 {
			continue
		}
		if latchCount {
			p.channels[i].latchCount()
		}
		if latchStatus {
			p.channels[i].latchStatus()
		}
	}
}

// reloadOrArm is called once a full reload value has landed in a counter;
// modes 0 and 4 load immediately, modes 1/2/3/5 load on the next gate-high
// clock edge for hardware-triggered variants but the gate is tied high on
// channels 0/1 so they load immediately too.
func (p *PIT) reloadOrArm(idx int) {
	c := p.channels[idx]
	switch c.mode {
	case 1, 5:
		// Hardware (re)triggered: loading primes reload but count only
		// actually reloads on the next gate-high edge (SetGate handles
		// the mid-run case); if already gated high, arm immediately.
		if c.gate {
			c.count = c.reload
		}
	case 3:
		// count tracks ticks remaining in the current (high) half-period.
		c.count = c.reload/2 + c.reload%2
	default:
		c.count = c.reload
	}
	c.pulsing = false
}

func (p *PIT) setOutput(idx int, high bool) {
	c := p.channels[idx]
	if c.output == high {
		return
	}
	c.output = high
	if p.OnOutputChange != nil {
		p.OnOutputChange(idx, high)
	}
}
