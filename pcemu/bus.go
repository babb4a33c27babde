package pcemu

import "github.com/valerio/go-pcemu/internal/bus"

// baseAdapter turns a relocatable-base device's two-argument
// ReadPort(base, port)/WritePort(base, port, value) into the single-argument
// bus.PortDevice the registry expects, closing over the base the device was
// configured at.
type baseAdapter struct {
	base  uint16
	read  func(base, port uint16) (bool, byte)
	write func(base, port uint16, value byte) bool
}

func (a baseAdapter) ReadPort(port uint16) (bool, byte) { return a.read(a.base, port) }
func (a baseAdapter) WritePort(port uint16, value byte) bool {
	return a.write(a.base, port, value)
}

// buildRegistry registers every device at its fixed or configured port
// range. The PPI is deliberately registered only at 0x60-0x61 and 0x92,
// never at 0xA0: on an AT-class board that address belongs to the slave
// PIC's data port, and the PPI's XT-only NMI-mask duplicate of it would
// otherwise shadow the slave chip.
func (c *Core) buildRegistry() {
	r := bus.NewRegistry()

	r.Register(0x00, 0x0F, c.DMA)
	r.Register(0x80, 0x8F, c.DMA)
	r.Register(0xC0, 0xDE, c.DMA)

	r.Register(0x20, 0x21, c.PIC)
	r.Register(0xA0, 0xA1, c.PIC)

	r.Register(0x40, 0x43, c.PIT)

	r.Register(0x60, 0x61, c.PPI)
	r.Register(0x92, 0x92, c.PPI)

	r.Register(0x330, 0x331, c.MPU)

	// Game Blaster registers first: on a combo card sharing the Sound
	// Blaster's base (SBCompatible), its detection ports at base+0x0A/0x0B
	// must take priority over the DSP's own Read Data register at the same
	// offset, matching a real SB Pro's CMS section physically owning that
	// latch. Configurations that want plain SB DMA playback undisturbed
	// should give GameBlasterBase its own address unless modeling that
	// combo card.
	r.Register(c.cfg.GameBlasterBase, c.cfg.GameBlasterBase+0x0B, baseAdapter{
		base:  c.cfg.GameBlasterBase,
		read:  c.GameBlaster.ReadPort,
		write: c.GameBlaster.WritePort,
	})
	r.Register(c.cfg.SoundBlasterBase, c.cfg.SoundBlasterBase+0x0F, baseAdapter{
		base:  c.cfg.SoundBlasterBase,
		read:  c.SoundBlaster.ReadPort,
		write: c.SoundBlaster.WritePort,
	})
	r.Register(c.cfg.ParallelBase, c.cfg.ParallelBase+0x02, baseAdapter{
		base:  c.cfg.ParallelBase,
		read:  c.Parallel.ReadPort,
		write: c.Parallel.WritePort,
	})

	c.registry = r
}

// ReadPort dispatches a CPU-side port read across every registered device.
func (c *Core) ReadPort(port uint16) (handled bool, value byte) {
	return c.registry.Read(port)
}

// WritePort dispatches a CPU-side port write across every registered device.
func (c *Core) WritePort(port uint16, value byte) (handled bool) {
	return c.registry.Write(port, value)
}
