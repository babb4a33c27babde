package sbdsp

// Tick advances the DSP by n ticks of the clock the PIT runs off. While
// DREQ is active, every tick moves at most one byte of the active transfer.
// The time constant does not pace this: SampleRateHz reports the programmed
// rate, but no sample timer divides these ticks down to it.
func (d *DSP) Tick(n int) {
	if !d.dreq || n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		d.timerTick()
	}
}

func (d *DSP) timerTick() {
	if d.dataLeft == 0 {
		return
	}
	if d.recording {
		d.recordTick()
		return
	}

	if d.ReadDMAByte == nil {
		return
	}
	b, ok := d.ReadDMAByte()
	if !ok {
		return // DREQ not yet serviced by the DMA controller this tick
	}
	d.dataLeft--

	if d.decoder != nil {
		for _, s := range d.decoder.Decode(b) {
			if d.Output != nil {
				d.Output(s)
			}
		}
	} else if d.Output != nil {
		d.Output(b)
	}

	if d.dataLeft == 0 {
		d.finishBlock()
	}
}

// recordTick digitizes one sample via Input and hands it to the DMA channel
// through WriteDMAByte, the mirror image of timerTick's ReadDMAByte/Output
// playback path.
func (d *DSP) recordTick() {
	if d.WriteDMAByte == nil {
		return
	}
	b := d.sample()
	d.WriteDMAByte(b)
	d.dataLeft--

	if d.dataLeft == 0 {
		d.finishBlock()
	}
}

func (d *DSP) finishBlock() {
	if d.RaiseIRQ != nil {
		d.RaiseIRQ()
	}
	if d.autoInit {
		d.dataLeft = uint32(d.blockSize) + 1
		return
	}
	d.dreq = false
	if d.SetDREQ != nil {
		d.SetDREQ(false)
	}
}
