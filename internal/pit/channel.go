// Package pit implements the 8253/8254 Programmable Interval Timer: three
// (or six, on boards wiring a second chip) independent counters driven off
// the 14.31818MHz crystal divided by 12, each programmable into one of six
// modes and readable via latch or read-back commands.
package pit

// Read/write access modes, bits 5-4 of the control word.
const (
	rwLatch = iota
	rwLSB
	rwMSB
	rwLOHI
)

// loState tracks which half of a 16-bit LSB/MSB pair is next.
type loState int

const (
	expectLSB loState = iota
	expectMSB
)

// Channel is one 8253/8254 counter: mode, current count, reload value, and
// the output-line/gate state the emulated mode logic derives it from.
type Channel struct {
	mode   byte
	rwMode byte
	bcd    bool

	reload  uint16
	count   uint16
	latched bool
	latch   uint16

	writeHalf loState
	readHalf  loState
	pendingLo byte // staged LSB for an in-progress LOHI write

	gate   bool // external gate input; channel 0/1 are tied high
	output bool
	armed  bool // has a reload value ever been written

	// for mode 4: one-tick-low strobe tracking at terminal count
	pulsing bool

	// read-back latched status byte, valid until the next counter read
	statusLatched bool
	status        byte
}

// newChannel returns a channel with its gate tied high (channels 0 and 1
// have no externally exposed gate; channel 2's PPI-driven gate starts low).
func newChannel(gateHigh bool) *Channel {
	return &Channel{gate: gateHigh, output: true}
}

// setControl applies the RW/mode/BCD fields of a control word targeting
// this channel (the counter-select bits are decoded by the caller).
func (c *Channel) setControl(rwMode, mode byte, bcd bool) {
	c.rwMode = rwMode
	c.mode = mode
	c.bcd = bcd
	c.writeHalf = expectLSB
	c.readHalf = expectLSB
	c.latched = false
	c.armed = false
	c.pulsing = false
	// Mode 0 drives output low the instant the mode is programmed; modes
	// 1-5 leave output high.
	c.output = mode != 0
}

func (c *Channel) maxCount() uint32 {
	if c.bcd {
		return 10000
	}
	return 0x10000
}

// writeData feeds one byte of a counter-port write, honouring the RW mode's
// LSB/MSB/LOHI sequencing, and returns true once a full reload value has
// landed (at which point the mode logic (re)arms the counter).
func (c *Channel) writeData(val byte) (reloaded bool) {
	switch c.rwMode {
	case rwLSB:
		c.reload = uint16(val)
		reloaded = true
	case rwMSB:
		c.reload = uint16(val) << 8
		reloaded = true
	case rwLOHI:
		if c.writeHalf == expectLSB {
			c.pendingLo = val
			c.writeHalf = expectMSB
			return false
		}
		c.reload = uint16(c.pendingLo) | uint16(val)<<8
		c.writeHalf = expectLSB
		reloaded = true
	}
	return reloaded
}

// readData returns one byte of a counter-port read, honouring latch state
// and RW-mode sequencing.
func (c *Channel) readData() byte {
	if c.statusLatched {
		c.statusLatched = false
		return c.status
	}
	source := c.count
	if c.latched {
		source = c.latch
	}
	var b byte
	switch c.rwMode {
	case rwLSB:
		b = byte(source)
	case rwMSB:
		b = byte(source >> 8)
	case rwLOHI:
		if c.readHalf == expectLSB {
			b = byte(source)
			c.readHalf = expectMSB
			return b
		}
		b = byte(source >> 8)
		c.readHalf = expectLSB
	}
	if c.latched && (c.rwMode != rwLOHI || c.readHalf == expectLSB) {
		c.latched = false
	}
	return b
}

// latchCount snapshots the current count for the next readData sequence.
func (c *Channel) latchCount() {
	if c.latched {
		return // a pending latch is never overwritten by a second one
	}
	c.latch = c.count
	c.latched = true
	c.readHalf = expectLSB
}

// latchStatus implements the read-back command's status-byte request: bit
// 7 = output pin state, bit 6 = null count (not yet loaded since last mode
// write), bits 5-0 mirror the control word's RW/mode/BCD fields.
func (c *Channel) latchStatus() {
	s := (c.rwMode << 4) | (c.mode << 1)
	if c.bcd {
		s |= 0x01
	}
	if c.output {
		s |= 0x80
	}
	if !c.armed {
		s |= 0x40
	}
	c.status = s
	c.statusLatched = true
}

// SetGate drives the channel's gate input (channel 2's is PPI port 0x61 bit 0).
func (c *Channel) SetGate(high bool) {
	wasLow := !c.gate
	c.gate = high
	if wasLow && high && (c.mode == 1 || c.mode == 5) {
		c.count = c.reload
		c.armed = true
	}
}

// Output reports the channel's current OUT pin level.
func (c *Channel) Output() bool {
	return c.output
}
