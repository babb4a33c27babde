package pit

// Tick advances every channel by n PIT clock pulses (the core divides its
// 14.31818MHz oscillator ticks by 12 before calling this). Channels whose
// gate is low (modes 0, 2, 3, 4 only; 1 and 5 gate by edge, not level) do
// not count.
func (p *PIT) Tick(n int) {
	for i, c := range p.channels {
		if !c.armed || n <= 0 {
			continue
		}
		switch c.mode {
		case 0:
			p.stepMode0(i, c, n)
		case 1, 5:
			p.stepMode1(i, c, n)
		case 2:
			p.stepMode2(i, c, n)
		case 3:
			p.stepMode3(i, c, n)
		case 4:
			p.stepMode4(i, c, n)
		}
	}
}

func decrement(c *Channel) {
	if c.bcd {
		c.count = decBCD(c.count)
		return
	}
	c.count--
}

// decBCD decrements a 4-digit packed-BCD value by one, wrapping 0000 to 9999.
func decBCD(v uint16) uint16 {
	if v&0x000F != 0 {
		return v - 1
	}
	if v&0x00F0 != 0 {
		return v - 0x0010 + 0x0009
	}
	if v&0x0F00 != 0 {
		return v - 0x0100 + 0x0099
	}
	if v&0xF000 != 0 {
		return v - 0x1000 + 0x0999
	}
	return 0x9999
}

// stepMode0 is the terminal-count interrupt mode: counts down once from the
// reload value, output low throughout, then goes and stays high.
func (p *PIT) stepMode0(idx int, c *Channel, n int) {
	for i := 0; i < n; i++ {
		if c.output {
			return // already fired; free-runs but OUT stays high until reprogrammed
		}
		if !c.gate {
			return
		}
		if c.count == 0 {
			p.setOutput(idx, true)
			return
		}
		decrement(c)
	}
}

// stepMode1 is the hardware retriggerable one-shot: a gate rising edge (see
// Channel.SetGate) loads the counter and drives OUT low; it counts down
// regardless of further gate activity and OUT goes high at zero.
func (p *PIT) stepMode1(idx int, c *Channel, n int) {
	for i := 0; i < n; i++ {
		if c.output {
			return
		}
		if c.count == 0 {
			p.setOutput(idx, true)
			return
		}
		decrement(c)
	}
}

// stepMode2 is the rate generator: at terminal count OUT drops low and
// returns high within the same tick while the counter reloads, so the
// period is exactly reload ticks. The low phase is not held for a tick:
// Output never reads low between Tick calls, though OnOutputChange sees
// both edges.
// This is the mode the system timer (IRQ0) and DRAM refresh channel use.
func (p *PIT) stepMode2(idx int, c *Channel, n int) {
	for i := 0; i < n; i++ {
		if !c.gate {
			return
		}
		if c.count <= 1 {
			// Terminal count: a one-clock low pulse, reload, and back high,
			// all within this tick, so the period is exactly reload ticks
			// rather than reload+1.
			p.setOutput(idx, false)
			c.count = c.reload
			p.setOutput(idx, true)
			continue
		}
		decrement(c)
	}
}

// stepMode3 is the square-wave generator: OUT is high for the first half of
// the period and low for the second (for an odd reload, the high phase gets
// the extra tick), then it repeats without external retriggering. c.count
// tracks ticks remaining in the current half rather than the raw divisor.
func (p *PIT) stepMode3(idx int, c *Channel, n int) {
	for i := 0; i < n; i++ {
		if !c.gate {
			return
		}
		if c.count <= 1 {
			if c.output {
				p.setOutput(idx, false)
				c.count = c.reload / 2
			} else {
				p.setOutput(idx, true)
				c.count = c.reload/2 + c.reload%2
			}
			continue
		}
		c.count--
	}
}

// stepMode4 is the software-triggered strobe: counts down once from the
// reload value with OUT high throughout, pulses low for one tick at zero,
// then stays high until rearmed by a fresh reload write.
func (p *PIT) stepMode4(idx int, c *Channel, n int) {
	for i := 0; i < n; i++ {
		if c.pulsing {
			c.pulsing = false
			p.setOutput(idx, true)
			c.armed = false
			return
		}
		if !c.gate {
			return
		}
		if c.count == 0 {
			c.pulsing = true
			p.setOutput(idx, false)
			continue
		}
		decrement(c)
	}
}
