// Package gameblaster implements the Creative Game Blaster / Creative
// Music System: a pair of Philips SAA-1099 six-channel square-wave/noise
// synthesizers addressed through the CT-1302 card's four-port layout.
package gameblaster

const channelsPerChip = 6

// noiseGen is one of a chip's two shared noise generators (channels 0-2
// share generator 0, channels 3-5 share generator 1).
type noiseGen struct {
	clockSel byte // 0-3: f/1 (channel rate), f/2, f/4, f/8
	lfsr     uint32
	divCount int
}

// noiseFeedback is the SAA-1099's 18-bit Galois LFSR feedback polynomial
// (x^18 + x^11 + 1), period 2^18-1.
const noiseFeedback = 0x20400

func (n *noiseGen) step() bool {
	if n.lfsr&1 != 0 {
		n.lfsr = (n.lfsr >> 1) ^ noiseFeedback
	} else {
		n.lfsr >>= 1
	}
	return n.lfsr&1 != 0
}

// channel is one SAA-1099 square-wave generator: octave/frequency derive
// its period, amplitude holds independent left/right 4-bit volumes.
type channel struct {
	ampLeft, ampRight byte // 0-15
	octave            byte // 0-7
	freq              byte // 0-255

	freqEnable  bool
	noiseEnable bool

	period  int
	counter int
	square  bool
}

// periodFor derives the channel's half-period in SAA1099 master clock ticks:
// real hardware computes f = masterClock/(512 >> octave) * (freq+1)/512-ish;
// we use the commonly reproduced approximation: period = (511-freq) >> octave.
func (c *channel) periodFor() int {
	p := (511 - int(c.freq)) >> c.octave
	if p < 1 {
		p = 1
	}
	return p
}

// Chip is one SAA-1099: 6 channels, 2 noise generators, 2 envelope units
// (one per stereo side, triggered by writing register 0x18/0x19).
type Chip struct {
	channels [channelsPerChip]channel
	noise    [2]noiseGen

	envEnabled  [2]bool
	envInvert   [2]bool
	envStep     [2]int
	envResLow   [2]bool // resolution: false=3-bit (8 step), true=4-bit(16 step)

	selectedReg byte
}

func newChip() *Chip {
	c := &Chip{}
	c.noise[0].lfsr = 1
	c.noise[1].lfsr = 1
	return c
}

// writeAddress latches the register index the next data write targets.
func (c *Chip) writeAddress(reg byte) {
	c.selectedReg = reg
}

// writeData applies a value to the currently-addressed register, per the
// well-documented SAA-1099 register map.
func (c *Chip) writeData(value byte) {
	reg := c.selectedReg
	switch {
	case reg <= 0x05:
		ch := &c.channels[reg]
		ch.ampRight = value & 0x0F
		ch.ampLeft = (value >> 4) & 0x0F
	case reg >= 0x08 && reg <= 0x0D:
		ch := &c.channels[reg-0x08]
		ch.freq = value
		ch.period = ch.periodFor()
	case reg >= 0x10 && reg <= 0x12:
		pairIdx := reg - 0x10
		c.channels[pairIdx*2].octave = value & 0x7
		c.channels[pairIdx*2+1].octave = (value >> 4) & 0x7
		c.channels[pairIdx*2].period = c.channels[pairIdx*2].periodFor()
		c.channels[pairIdx*2+1].period = c.channels[pairIdx*2+1].periodFor()
	case reg == 0x14:
		for i := range c.channels {
			c.channels[i].freqEnable = value&(1<<uint(i)) != 0
		}
	case reg == 0x15:
		for i := range c.channels {
			c.channels[i].noiseEnable = value&(1<<uint(i)) != 0
		}
	case reg == 0x16:
		c.noise[0].clockSel = value & 0x3
		c.noise[1].clockSel = (value >> 4) & 0x3
	case reg == 0x18, reg == 0x19:
		idx := int(reg - 0x18)
		c.envEnabled[idx] = value&0x80 != 0
		c.envInvert[idx] = value&0x01 != 0
		c.envResLow[idx] = value&0x10 == 0
		if value&0x80 == 0 {
			c.envStep[idx] = 0
		}
	case reg == 0x1C:
		// "All Sound Off": real hardware resets amplitudes to silence.
		for i := range c.channels {
			c.channels[i].ampLeft, c.channels[i].ampRight = 0, 0
		}
	}
}
