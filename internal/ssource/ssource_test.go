package ssource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerUpLatchesFIFOOnDataTickFallingEdge(t *testing.T) {
	d := New(1_000_000, nil)
	d.OnControlWrite(0, 0) // power up: bit2 low from reset

	d.OnDataWrite(0x42)
	d.OnControlWrite(ctrlDataTick, ctrlDataTick) // tick rises
	d.OnControlWrite(0, ctrlDataTick)            // tick falls: byte latched

	require.Len(t, d.fifo, 1)
	assert.Equal(t, byte(0x42), d.fifo[0])
}

func TestPowerOffClearsFIFO(t *testing.T) {
	d := New(1_000_000, nil)
	d.OnControlWrite(0, 0)
	d.OnDataWrite(0x10)
	d.OnControlWrite(ctrlDataTick, ctrlDataTick)
	d.OnControlWrite(0, ctrlDataTick)
	require.Len(t, d.fifo, 1)

	d.OnControlWrite(ctrlPowerOff, ctrlPowerOff)
	assert.Empty(t, d.fifo)
	assert.False(t, d.poweredUp)
}

func TestFullFIFODropsAdditionalBytes(t *testing.T) {
	d := New(1_000_000, nil)
	d.OnControlWrite(0, 0)
	for i := 0; i < fifoDepth+4; i++ {
		d.OnDataWrite(byte(i))
		d.OnControlWrite(ctrlDataTick, ctrlDataTick)
		d.OnControlWrite(0, ctrlDataTick)
	}
	assert.Len(t, d.fifo, fifoDepth)
}

func TestTickDrainsFIFOAtSoundSourceRate(t *testing.T) {
	d := New(7000.0, nil) // native rate equal to the sound source rate: 1 cycle/sample
	d.OnControlWrite(0, 0)
	d.OnDataWrite(0xFF)
	d.OnControlWrite(ctrlDataTick, ctrlDataTick)
	d.OnControlWrite(0, ctrlDataTick)

	d.Tick(1)
	assert.Equal(t, int16(0xFF-128)<<8, d.SoundSourceSample())
}

func TestCovoxChannelsLatchIndependently(t *testing.T) {
	d := New(1_000_000, nil)
	d.OnDataWrite(0x10)
	d.OnControlWrite(ctrlCovoxLeft, ctrlCovoxLeft)
	d.OnDataWrite(0x20)
	d.OnControlWrite(ctrlCovoxLeft|ctrlCovoxRight, ctrlCovoxRight)

	assert.Equal(t, byte(0x10), d.covoxLeft)
	assert.Equal(t, byte(0x20), d.covoxRight)
}

func TestCovoxMonoDetectedAfterFiveUnchangedWrites(t *testing.T) {
	d := New(1_000_000, nil)
	// The 5th write flips covox_mono on but, matching the original
	// detector, does not itself retroactively update the channels; the
	// 6th write is the first one actually routed through the mono path.
	for i := 0; i < 5; i++ {
		d.OnDataWrite(0x55)
	}
	assert.True(t, d.covoxMono)

	d.OnDataWrite(0x55)
	assert.Equal(t, byte(0x55), d.covoxLeft)
	assert.Equal(t, byte(0x55), d.covoxRight)
}
