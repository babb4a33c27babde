package gameblaster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The SAA-1099 noise generator is a maximal-length 18-bit Galois LFSR
// (feedback polynomial x^18 + x^11 + 1): driven from seed 1 it must visit
// every one of its 2^18-1 nonzero states and return to 1 at exactly that
// count, never sooner.
func TestNoiseGeneratorCyclesBackToSeed(t *testing.T) {
	n := &noiseGen{lfsr: 1}
	const wantPeriod = 1<<18 - 1
	for i := 1; i <= wantPeriod; i++ {
		n.step()
		if n.lfsr == 1 {
			require.Equal(t, wantPeriod, i, "maximal-length LFSR must not return to its seed before the full period")
			return
		}
	}
	require.Fail(t, "LFSR did not return to its seed within 2^18-1 steps")
}

func TestAmplitudeRegisterSplitsLeftRightNibbles(t *testing.T) {
	c := newChip()
	c.writeAddress(0x02)
	c.writeData(0xA5)

	assert.Equal(t, byte(0x5), c.channels[2].ampRight)
	assert.Equal(t, byte(0xA), c.channels[2].ampLeft)
}

func TestFrequencyEnableBitmaskGatesChannels(t *testing.T) {
	c := newChip()
	c.writeAddress(0x14)
	c.writeData(0x05) // channels 0 and 2 enabled

	assert.True(t, c.channels[0].freqEnable)
	assert.False(t, c.channels[1].freqEnable)
	assert.True(t, c.channels[2].freqEnable)
}

func TestOctaveRegisterRaisesChannelPitch(t *testing.T) {
	c := newChip()
	c.writeAddress(0x08) // channel 0 frequency
	c.writeData(0x80)

	c.writeAddress(0x10) // octave pair for channels 0/1
	c.writeData(0x00)
	lowOctavePeriod := c.channels[0].periodFor()

	c.writeAddress(0x10)
	c.writeData(0x03)
	highOctavePeriod := c.channels[0].periodFor()

	assert.Less(t, highOctavePeriod, lowOctavePeriod, "a higher octave index must shorten the period")
}

func TestAllSoundOffSilencesAmplitudes(t *testing.T) {
	c := newChip()
	c.writeAddress(0x00)
	c.writeData(0xFF)
	c.writeAddress(0x1C)
	c.writeData(0x00)

	assert.Zero(t, c.channels[0].ampLeft)
	assert.Zero(t, c.channels[0].ampRight)
}

func TestSquareWaveTogglesAtHalfPeriod(t *testing.T) {
	c := newChip()
	c.writeAddress(0x14)
	c.writeData(0x01) // enable channel 0's square gate
	c.writeAddress(0x08)
	c.writeData(0x00) // low frequency register -> large period
	c.writeAddress(0x10)
	c.writeData(0x00) // octave 0

	before := c.channels[0].square
	period := c.channels[0].periodFor()
	c.Tick(period)
	assert.NotEqual(t, before, c.channels[0].square, "the oscillator must flip once per elapsed period")
}

func TestPairRoutesChannelsToDistinctChips(t *testing.T) {
	p := New(false, nil)
	p.WritePort(0x220, 0x220, 0x00) // left chip: select amplitude reg 0
	p.WritePort(0x220, 0x221, 0xF0) // left chip: full left amplitude, zero right
	p.WritePort(0x220, 0x222, 0x00) // right chip: select amplitude reg 0
	p.WritePort(0x220, 0x223, 0x0F) // right chip: zero left amplitude, full right

	assert.Equal(t, byte(0xF), p.Left.channels[0].ampLeft)
	assert.Equal(t, byte(0xF), p.Right.channels[0].ampRight)
	assert.Zero(t, p.Right.channels[0].ampLeft)
}

func TestDetectionPortsFloatWhenNotSBCompatible(t *testing.T) {
	p := New(false, nil)
	p.WritePort(0x220, 0x22A, 0x37)
	_, v := p.ReadPort(0x220, 0x22A)
	assert.Equal(t, byte(0xFF), v, "a bare CMS card leaves the detect port floating high")
}

func TestDetectionPortsLatchWhenSBCompatible(t *testing.T) {
	p := New(true, nil)
	p.WritePort(0x220, 0x22A, 0x37)
	_, v := p.ReadPort(0x220, 0x22A)
	assert.Equal(t, byte(0x37), v, "an SB-integrated CMS section echoes back the last probe byte")
}
