package sbdsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = 0x220

func TestResetPulsePushesAckByte(t *testing.T) {
	d := New(2, 1, nil)
	d.WritePort(base, base+portReset, 0x01)
	d.WritePort(base, base+portReset, 0x00)

	_, avail := d.ReadPort(base, base+portDataAvail)
	assert.Equal(t, byte(0x80), avail)

	_, ack := d.ReadPort(base, base+portReadData)
	assert.Equal(t, byte(0xAA), ack)
}

func TestTimeConstantLawMatchesDocumentedFormula(t *testing.T) {
	d := New(2, 1, nil)
	d.WritePort(base, base+portWriteData, 0x40) // Set Time Constant
	d.WritePort(base, base+portWriteData, 0xD2) // TC 0xD2 = 210: 1000000/46 ~ 21739Hz, near 22kHz

	rate := d.SampleRateHz()
	assert.InDelta(t, 1000000.0/(256-0xD2), rate, 0.01)
}

func TestDirectDACInvokesOutputImmediately(t *testing.T) {
	d := New(2, 1, nil)
	var got byte
	d.Output = func(s byte) { got = s }

	d.WritePort(base, base+portWriteData, 0x10) // Direct DAC
	d.WritePort(base, base+portWriteData, 0x42) // the sample

	assert.Equal(t, byte(0x42), got)
}

func TestDMA8PlaybackPumpsBytesAndFiresIRQOnce(t *testing.T) {
	d := New(2, 1, nil)
	data := []byte{0x10, 0x20, 0x30}
	idx := 0
	d.ReadDMAByte = func() (byte, bool) {
		if idx >= len(data) {
			return 0, false
		}
		b := data[idx]
		idx++
		return b, true
	}
	var out []byte
	d.Output = func(s byte) { out = append(out, s) }
	irqs := 0
	d.RaiseIRQ = func() { irqs++ }

	d.WritePort(base, base+portWriteData, 0x14) // DMA DAC, 8-bit
	d.WritePort(base, base+portWriteData, 0x02) // length lo (3 bytes: len+1=3)
	d.WritePort(base, base+portWriteData, 0x00) // length hi

	d.Tick(10)

	assert.Equal(t, data, out)
	assert.Equal(t, 1, irqs)
	assert.False(t, d.dreq, "non-auto-init transfer drops DREQ once finished")
}

func TestADPCMReferenceByteIsConsumedBeforePlayback(t *testing.T) {
	d := New(2, 1, nil)
	data := []byte{0x80, 0x11, 0x22}
	idx := 0
	d.ReadDMAByte = func() (byte, bool) {
		if idx >= len(data) {
			return 0, false
		}
		b := data[idx]
		idx++
		return b, true
	}
	var out []byte
	d.Output = func(s byte) { out = append(out, s) }

	d.WritePort(base, base+portWriteData, 0x17) // DMA DAC, 2-bit ADPCM reference
	d.WritePort(base, base+portWriteData, 0x02) // length lo: 1 reference + 2 payload bytes
	d.WritePort(base, base+portWriteData, 0x00)

	d.Tick(20)

	require.NotEmpty(t, out)
	assert.Equal(t, 3, idx, "reference byte plus the two data bytes were all consumed")
}
