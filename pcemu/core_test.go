package pcemu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-pcemu/internal/config"
)

func newTestCore(t *testing.T) *Core {
	t.Helper()
	cfg := config.Default()
	return New(cfg, Options{}, nil)
}

func TestPITChannelZeroRaisesMasterIRQ0(t *testing.T) {
	c := newTestCore(t)
	c.WritePort(0x21, 0x00) // unmask the master PIC's lines (IMR is 0xFF at reset)

	c.WritePort(0x43, 0x34) // channel 0, LOHI, mode 2, binary
	c.WritePort(0x40, 4)    // LSB
	c.WritePort(0x40, 0)    // MSB -> reload = 4

	var sawINTR bool
	for i := 0; i < 40 && !sawINTR; i++ {
		c.Tick(1, 2)
		sawINTR = c.HasINTR()
	}
	assert.True(t, sawINTR, "channel 0's periodic pulse must reach the master PIC's IRR")
}

func TestSlavePICOwnsPort0xA0NotThePPI(t *testing.T) {
	c := newTestCore(t)

	// Reading 0xA0 must reach the slave chip's IRR (0 at power-on), not the
	// PPI's NMI-mask port, which reads 0x80 while NMI is enabled.
	handled, v := c.ReadPort(0xA0)
	assert.True(t, handled, "0xA0 must be claimed by a device")
	assert.Equal(t, byte(0x00), v, "0xA0 reads the slave PIC's IRR, not the PPI's NMI mask")

	// The PPI read at 0x92 must still work (control port A), proving the
	// PPI itself is wired, just not at 0xA0.
	handled92, _ := c.ReadPort(0x92)
	assert.True(t, handled92)
}

func TestSoundBlasterDMAPlaybackPumpsOutput(t *testing.T) {
	// Move the Game Blaster off the Sound Blaster's base: this test exercises
	// plain SB DMA playback, and a combo card's CMS detection ports would
	// otherwise take bus priority over the DSP's Read Data register at the
	// same offset (see buildRegistry).
	cfg := config.Default()
	cfg.GameBlasterBase = 0x240
	c := New(cfg, Options{}, nil)

	// Reset the DSP (pulse 1 then 0), then read the ack byte back.
	c.WritePort(0x220+0x06, 0x01)
	c.WritePort(0x220+0x06, 0x00)
	_, ack := c.ReadPort(0x220 + 0x0A)
	assert.Equal(t, byte(0xAA), ack)

	// Program the DMA channel the way a real driver would, independently of
	// the DSP: single mode, memory-to-device, channel 1, 4-byte count, then
	// unmask it. There is no memory image behind this harness, so every
	// transferred byte reads back as the documented 0xFF placeholder.
	c.WritePort(0x0C, 0x00)        // clear address/count flip-flop
	c.WritePort(0x02, 0x00)        // channel 1 address LSB
	c.WritePort(0x02, 0x00)        // channel 1 address MSB
	c.WritePort(0x03, 0x03)        // channel 1 count LSB -> 4 transfers
	c.WritePort(0x03, 0x00)        // channel 1 count MSB
	c.WritePort(0x0B, 0x49)        // mode: single, memory->device, channel 1
	c.WritePort(0x0A, 0x01)        // unmask channel 1

	// Set time constant then start an 8-bit single-cycle DMA playback of 4 bytes.
	c.WritePort(0x220+0x0C, 0x40) // set time constant command
	c.WritePort(0x220+0x0C, 0x83)
	c.WritePort(0x220+0x0C, 0x14) // single-cycle 8-bit DMA output
	c.WritePort(0x220+0x0C, 0x03) // length LSB -> 4 bytes
	c.WritePort(0x220+0x0C, 0x00) // length MSB

	var samples []byte
	c.SoundBlaster.Output = func(s byte) { samples = append(samples, s) }

	for i := 0; i < 500 && len(samples) < 4; i++ {
		c.Tick(4, 8)
	}
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, samples)
}

func TestGameBlasterDetectionPortsGatedBySBCompatible(t *testing.T) {
	cfg := config.Default()
	cfg.SBCompatible = true
	c := New(cfg, Options{}, nil)

	c.WritePort(cfg.GameBlasterBase+0x0A, 0x42)
	_, v := c.ReadPort(cfg.GameBlasterBase + 0x0A)
	assert.Equal(t, byte(0x42), v, "SB-compatible mode latches the probe byte")
}

func TestParallelPortStrobeEdgeRaisesConfiguredIRQ(t *testing.T) {
	c := newTestCore(t)
	c.WritePort(0x21, 0x00) // unmask the master PIC's lines (IMR is 0xFF at reset)

	c.WritePort(c.cfg.ParallelBase+0x02, 0x11) // strobe + IRQ-enable set
	c.WritePort(c.cfg.ParallelBase+0x02, 0x10) // strobe falling edge, IRQ still enabled

	assert.True(t, c.HasINTR(), "strobe falling edge with IRQ enabled must reach the PIC")
}
