package dma

// Tick advances the shared DMA state machine by one controller-tick. The
// scheduler calls this once per PIT-tick/3 (XT-class, 4.77MHz pipeline) or
// per 2 CPU cycles (AT+); one state advance happens per call. cpuBusFree
// reports whether the imaginary CPU has released the bus (HLDA observed);
// in non-cycle-accurate callers this can always be true.
func (p *Pair) Tick(cpuBusFree bool) {
	switch p.state {
	case stateSI:
		p.tickSI()
	case stateS0:
		p.tickS0(cpuBusFree)
	case stateS1:
		p.state = stateS2
	case stateS2:
		p.tickS2()
	case stateS3:
		p.tickS3()
	case stateS4:
		p.tickS4()
	}
}

// tickSI samples all DREQ lines of all 8 channels (skipping cascade and
// handler-less entries). If any unmasked channel is pending, advance to S0.
// If nothing is pending the engine remains in SI (idle), matching the
// "short-circuit further ticks" timing note.
func (p *Pair) tickSI() {
	for n := 0; n < 8; n++ {
		if p.Channel(n).runnable() {
			p.state = stateS0
			return
		}
	}
}

// tickS0 acquires the bus. On the tick where the CPU has released the bus,
// insert one wait state (modeled as waitStates=1) to let the CPU reach a
// safe point, then re-scan priorities with channel 0 (of the pair) highest
// and select one runnable channel.
func (p *Pair) tickS0(cpuBusFree bool) {
	if !cpuBusFree {
		return
	}
	if p.waitStates == 0 {
		p.waitStates = 1
		return
	}
	p.waitStates = 0

	for n := 0; n < 8; n++ {
		if p.Channel(n).runnable() {
			p.activeChannel = n
			p.owner = n / 4
			p.state = stateS1
			return
		}
	}
	// Nothing actually runnable any more (DREQ dropped between SI and S0).
	p.state = stateSI
}

// tickS2 asserts DACK to the device callback; in single/block modes the
// channel's latched DACK bit is set.
func (p *Pair) tickS2() {
	ch := p.Channel(p.activeChannel)
	selectMode := ch.mode & modeSelectMask
	if selectMode == modeSingle || selectMode == modeBlock {
		ch.dack = true
	}
	if ch.OnDACK != nil {
		ch.OnDACK()
	}
	p.state = stateS3
}

// tickS3 performs the transfer: compute the bus address, run the device
// read/write or memory read/write according to the transfer-type bits, step
// the address/count, and raise TC on underflow.
func (p *Pair) tickS3() {
	controller := p.Controllers[p.owner]
	ch := p.Channel(p.activeChannel)

	switch ch.mode & modeTransferTypeMask {
	case modeTransferVerify:
		// Verify exercises the device read but never commits to memory.
		// Open question in the design notes resolved as device-read-only.
		if ch.ReadByte != nil {
			ch.ReadByte()
		}
	case modeTransferWrite:
		// Read device, write memory: the memory side has no callback here
		// (the engine only owns device-facing callbacks); callers that wire
		// an actual memory image do so via ReadByte/WriteByte on the device
		// side representing the memory-facing half of the transfer.
		if ch.ReadByte != nil {
			ch.ReadByte()
		}
	case modeTransferRead:
		if ch.WriteByte != nil {
			// A channel transferring with a NULL write callback still
			// advances its address/count; data is conceptually 0xFF.
			ch.WriteByte(0xFF)
		}
	default: // modeTransferIllegal
	}

	underflow := ch.step()
	if underflow {
		ch.tc = true
		controller.status |= 0x01 << uint(ch.index)
		if ch.OnTC != nil {
			ch.OnTC()
		}
		ch.request = false
	}

	p.state = stateS4
}

// tickS4 releases DACK and, on terminal count, fires EOP/auto-init and
// releases the bus before looping back to SI.
func (p *Pair) tickS4() {
	controller := p.Controllers[p.owner]
	ch := p.Channel(p.activeChannel)

	selectMode := ch.mode & modeSelectMask

	if ch.tc {
		if selectMode == modeSingle || selectMode == modeBlock {
			ch.dack = false
		}

		terminalSingleOrBlock := selectMode == modeSingle || selectMode == modeBlock
		modeZero := selectMode == modeDemand
		if modeZero || terminalSingleOrBlock {
			if ch.OnEOP != nil {
				ch.OnEOP()
			}
			if ch.mode&modeAutoInit != 0 {
				ch.reload()
			}
		}
		ch.tc = false
	} else {
		ch.dack = false
	}

	if !ch.dreq {
		controller.status &^= 0x10 << uint(ch.index)
	}

	p.state = stateSI
	// Re-enter SI immediately if more work exists; tickSI below is invoked
	// on the caller's next Tick, matching "one state advance per call".
}
