package pit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMode2RateGeneratorPulsesPeriodically drives scenario A: channel 0
// programmed in mode 2 with a small divisor must pulse OUT low for exactly
// one tick every `reload` ticks, forever, without reprogramming.
func TestMode2RateGeneratorPulsesPeriodically(t *testing.T) {
	p := New(nil)
	var lowEdges int
	p.OnOutputChange = func(channel int, high bool) {
		if channel == ChannelTimer && !high {
			lowEdges++
		}
	}

	p.WritePort(0x43, 0x34) // channel 0, LOHI, mode 2, binary
	p.WritePort(0x40, 4)    // LSB
	p.WritePort(0x40, 0)    // MSB -> reload = 4

	for i := 0; i < 4*10; i++ {
		p.Tick(1)
	}
	assert.Equal(t, 10, lowEdges, "mode 2 fires once per reload-length period")
}

func TestLOHIWriteOrderLoadsReloadAndCount(t *testing.T) {
	p := New(nil)
	p.WritePort(0x43, 0x30) // channel 0, LOHI, mode 0
	p.WritePort(0x40, 0x34)
	p.WritePort(0x40, 0x12) // reload = 0x1234

	c := p.Channel(0)
	assert.Equal(t, uint16(0x1234), c.reload)
	assert.Equal(t, uint16(0x1234), c.count)
}

func TestLatchCommandFreezesCountAcrossWrites(t *testing.T) {
	p := New(nil)
	p.WritePort(0x43, 0x34) // channel 0, LOHI, mode 2
	p.WritePort(0x40, 100)
	p.WritePort(0x40, 0)

	p.Tick(30)
	p.WritePort(0x43, 0x00) // latch channel 0's count

	_, lo := p.ReadPort(0x40)
	p.Tick(50) // count keeps moving after the latch but the read must not see it
	_, hi := p.ReadPort(0x40)

	latched := uint16(lo) | uint16(hi)<<8
	c := p.Channel(0)
	assert.NotEqual(t, c.count, latched, "latched read must reflect the snapshot, not the live count")
}

func TestReadBackStatusBitsReflectControlWord(t *testing.T) {
	p := New(nil)
	p.WritePort(0x43, 0x36) // channel 0, LOHI, mode 3, binary

	p.writeCommand(0xE0 | 0x04) // read-back: status only, channel 0
	_, status := p.ReadPort(0x40)
	assert.Equal(t, byte(3), (status>>1)&0x7, "status byte's mode field matches the programmed mode")
	assert.Equal(t, byte(0x40), status&0x40, "null count set: no reload has been written since the mode write")
}

func TestMode3SquareWaveEvenDivisor(t *testing.T) {
	p := New(nil)
	var transitions []bool
	p.OnOutputChange = func(channel int, high bool) {
		if channel == 0 {
			transitions = append(transitions, high)
		}
	}
	p.WritePort(0x43, 0x36) // mode 3
	p.WritePort(0x40, 4)
	p.WritePort(0x40, 0)

	for i := 0; i < 8; i++ {
		p.Tick(1)
	}
	require.True(t, len(transitions) >= 2)
	assert.False(t, transitions[0], "first half-period ends with OUT going low")
	assert.True(t, transitions[1], "second half-period ends with OUT going high again")
}

func TestChannel2GateControlsSpeakerCounting(t *testing.T) {
	p := New(nil)
	p.WritePort(0x43, 0x36|(ChannelSpeaker<<6)&0xC0) // channel 2, LOHI, mode 3
	p.WritePort(0x42, 10)
	p.WritePort(0x42, 0)

	before := p.Channel(2).count
	p.Tick(5) // gate still low: must not count
	assert.Equal(t, before, p.Channel(2).count)

	p.Channel(2).SetGate(true)
	p.Tick(1)
	assert.NotEqual(t, before, p.Channel(2).count, "gate high lets the channel resume counting")
}
