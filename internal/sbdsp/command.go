package sbdsp

import "github.com/valerio/go-pcemu/internal/adpcm"

// writeByte feeds one byte written to the write-data/command port: it is
// either a fresh command opcode, or the next parameter byte of a command
// still gathering its parameters.
func (d *DSP) writeByte(value byte) {
	if !d.haveCmd {
		cmd, ok := commandTable[value]
		if !ok {
			return // unrecognised opcode: DOSBox/real hardware silently drop it
		}
		d.pending = cmd
		d.params = d.params[:0]
		if cmd.params == 0 {
			d.execute()
			return
		}
		d.haveCmd = true
		return
	}

	d.params = append(d.params, value)
	if len(d.params) >= d.pending.params {
		d.haveCmd = false
		d.execute()
	}
}

func (d *DSP) param16() uint16 {
	if len(d.params) < 2 {
		return 0
	}
	return uint16(d.params[0]) | uint16(d.params[1])<<8
}

func (d *DSP) execute() {
	cmd := d.pending
	switch cmd.kind {
	case kindDirectDAC:
		if len(d.params) > 0 && d.Output != nil {
			d.Output(d.params[0])
		}
	case kindDirectADC:
		d.pushInFIFO(d.sample())
	case kindDSPStatus:
		var status byte
		if d.dreq {
			status |= 0x01
		}
		if d.muted {
			status |= 0x80
		}
		d.pushInFIFO(status)
	case kindDMA8, kindADPCM:
		d.startDMA(cmd)
	case kindSetTimeConstant:
		if len(d.params) > 0 {
			tc := d.params[0]
			if tc != d.timeConstant {
				d.timeConstantDirty = true
			}
			d.timeConstant = tc
		}
	case kindSetBlockSize:
		d.blockSize = d.param16()
	case kindSilence:
		d.dataLeft = uint32(d.param16()) + 1
	case kindSpeakerOn:
		d.muted = false
	case kindSpeakerOff:
		d.muted = true
	case kindSpeakerStatus:
		if d.muted {
			d.pushInFIFO(0x00)
		} else {
			d.pushInFIFO(0xFF)
		}
	case kindHaltDMA:
		d.dreq = false
		if d.SetDREQ != nil {
			d.SetDREQ(false)
		}
	case kindContinueDMA:
		d.dreq = true
		if d.SetDREQ != nil {
			d.SetDREQ(true)
		}
	case kindExitAutoInit:
		d.autoInit = false
	case kindIdentify:
		if len(d.params) > 0 {
			d.pushInFIFO(^d.params[0])
		}
	case kindVersion:
		d.pushInFIFO(byte(d.version >> 8))
		d.pushInFIFO(byte(d.version & 0xFF))
	case kindForceIRQ:
		if d.RaiseIRQ != nil {
			d.RaiseIRQ()
		}
	case kindTestWrite:
		if len(d.params) > 0 {
			d.testRegister = d.params[0]
		}
	case kindTestRead:
		d.pushInFIFO(d.testRegister)
	}
}

// startDMA arms a DMA-driven DAC/ADPCM transfer: the length comes either
// from the just-gathered parameter pair, or (for auto-init variants) from
// the block size a prior Set DMA Block Size command staged.
func (d *DSP) startDMA(cmd command) {
	length := uint32(d.blockSize)
	if !cmd.autoRun {
		length = uint32(d.param16())
	}
	d.dataLeft = length + 1
	d.autoInit = cmd.autoRun || d.autoInit
	d.recording = cmd.direction == dirRecord

	if cmd.adpcm != 0 {
		switch cmd.adpcm {
		case 2:
			d.decoder = adpcm.New2Bit()
		case 3:
			d.decoder = adpcm.New26Bit()
		case 4:
			d.decoder = adpcm.New4Bit()
		}
		if cmd.ref && d.ReadDMAByte != nil {
			if b, ok := d.ReadDMAByte(); ok {
				d.decoder.SetReference(b)
				d.dataLeft--
			}
		}
	} else {
		d.decoder = nil
	}

	if d.timeConstantDirty {
		d.timeConstantDirty = false
	}
	d.dreq = true
	if d.SetDREQ != nil {
		d.SetDREQ(true)
	}
}
