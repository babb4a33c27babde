// Package ssource implements the Disney Sound Source and the compatible
// Covox Speech Thing: two 8-bit DACs that ride a parallel port's data
// register rather than DMA. The Sound Source latches bytes into a small
// FIFO on a control-line pulse and drains it at a fixed 7kHz; the Covox
// is simpler still, just the data register's current value read back
// through two control-line-selected channels. Grounded on the combined
// power-up/FIFO/covox-mono-detection state machine documented alongside
// the original parallel-port driver this rides.
package ssource

import "log/slog"

const fifoDepth = 16 // matches the real Sound Source's onboard buffer

// Control-line bits as driven by the parallel port's control register.
const (
	ctrlCovoxLeft  = 1 << 0
	ctrlCovoxRight = 1 << 1
	ctrlPowerOff   = 1 << 2 // active low: 0 = powered up
	ctrlDataTick   = 1 << 3
)

// Device is the combined Sound Source/Covox peripheral. Both halves share
// the parallel port's 8-bit output latch; which one is active is purely a
// function of which control lines the software driver pulses.
type Device struct {
	logger *slog.Logger

	outbuffer byte
	lastCtrl  byte

	poweredUp bool
	fifo      []byte

	covoxLeft, covoxRight byte
	covoxMono             bool
	covoxTicking          int

	nativeHz, ssourceHz float64
	cycleAcc            float64
	cyclesPerSample     float64
	ssourceLatch        byte
}

// New constructs a powered-down device ticking its Sound Source FIFO
// drain at the documented 7kHz against the given native clock rate.
func New(nativeHz float64, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	const ssourceHz = 7000.0
	d := &Device{
		logger:          logger,
		nativeHz:        nativeHz,
		ssourceHz:       ssourceHz,
		cyclesPerSample: nativeHz / ssourceHz,
		ssourceLatch:    0x80,
		covoxLeft:       0x80,
		covoxRight:      0x80,
	}
	return d
}

// OnDataWrite wires as a parallel.Port.OnDataWrite hook.
func (d *Device) OnDataWrite(value byte) {
	d.outbuffer = value
	if d.covoxMono {
		d.covoxLeft, d.covoxRight = value, value
		return
	}
	d.covoxTicking++
	if d.covoxTicking == 5 {
		d.covoxMono = true
		d.covoxTicking = 4
	}
}

// OnControlWrite wires as a parallel.Port.OnControlWrite hook.
func (d *Device) OnControlWrite(value, changed byte) {
	bitsOn := changed & value
	bitsOff := changed &^ value

	if value&ctrlPowerOff == 0 {
		if bitsOff&ctrlDataTick != 0 {
			d.pushFIFO(d.outbuffer)
			d.covoxTicking, d.covoxMono = 0, false
		}
		d.poweredUp = true
	} else if bitsOn&ctrlPowerOff != 0 {
		d.poweredUp = false
		d.fifo = d.fifo[:0]
	}

	if bitsOn&ctrlCovoxLeft != 0 {
		d.covoxLeft = d.outbuffer
		d.covoxTicking, d.covoxMono = 0, false
	}
	if bitsOn&ctrlCovoxRight != 0 {
		d.covoxRight = d.outbuffer
		d.covoxTicking, d.covoxMono = 0, false
	}

	d.lastCtrl = value
}

func (d *Device) pushFIFO(b byte) {
	if len(d.fifo) >= fifoDepth {
		return // buffer full: byte is dropped, as on real hardware
	}
	d.fifo = append(d.fifo, b)
}

// Tick advances n native cycles, draining the Sound Source FIFO at its
// fixed 7kHz whenever enough cycles have accumulated.
func (d *Device) Tick(n int) {
	if !d.poweredUp {
		return
	}
	d.cycleAcc += float64(n)
	for d.cycleAcc >= d.cyclesPerSample {
		d.cycleAcc -= d.cyclesPerSample
		if len(d.fifo) > 0 {
			d.ssourceLatch = d.fifo[0]
			d.fifo = d.fifo[1:]
		} else {
			d.ssourceLatch = 0x80
		}
	}
}

// SoundSourceSample returns the Sound Source's current mono DAC level as
// a signed PCM sample for a mixer.Source.
func (d *Device) SoundSourceSample() int16 {
	return unsignedToSigned(d.ssourceLatch)
}

// CovoxLeftSample and CovoxRightSample return the Covox's two directly
// latched channels; there is no FIFO to drain, only a held value.
func (d *Device) CovoxLeftSample() int16  { return unsignedToSigned(d.covoxLeft) }
func (d *Device) CovoxRightSample() int16 { return unsignedToSigned(d.covoxRight) }

func unsignedToSigned(b byte) int16 {
	return (int16(b) - 128) << 8
}
