package pcemu

// Tick advances the core by mhz14passed ticks of the 14.31818MHz master
// oscillator and cpuCycles CPU cycles, in the fixed device order: PIT,
// then DMA, then the interrupt controllers, then the audio generators,
// then the output mixer. DMA's S0-S4 state machine advances once per two
// CPU cycles (the real 8237A's minimum transfer cycle), so it receives
// cpuCycles/2 state-machine steps this call; every 14MHz-rate device
// receives mhz14passed directly.
func (c *Core) Tick(mhz14passed uint64, cpuCycles int) {
	n := int(mhz14passed)

	c.PIT.Tick(n)

	for i := 0; i < cpuCycles/2; i++ {
		c.DMA.Tick(true)
	}

	if c.useAPIC {
		c.LAPIC.Tick(cpuCycles)
	}
	// The legacy PIC pair has no clock of its own: it reacts to Raise/Lower
	// calls made synchronously by PIT/device callbacks above, so there is
	// nothing to tick here beyond keeping the cascade line in sync, which
	// HasINTR/INTA already do on demand.

	c.SoundBlaster.Tick(n)
	c.GameBlaster.Tick(n)
	c.SoundSource.Tick(n)

	c.Mixer.Tick(n)
}

// HasINTR reports whether the core currently wants to assert an interrupt
// to the CPU, through whichever interrupt path (legacy PIC or APIC) Core
// was configured with.
func (c *Core) HasINTR() bool {
	if c.useAPIC {
		return false // the LAPIC delivers directly; there is no shared INTR line to poll
	}
	return c.PIC.HasINTR()
}

// INTA runs the interrupt-acknowledge cycle on the legacy PIC pair,
// returning the vector to deliver. Only meaningful when Core was built
// without UseAPIC.
func (c *Core) INTA() byte {
	return c.PIC.INTA()
}
