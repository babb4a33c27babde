package pic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initChip(c *Chip, vectorBase byte) {
	c.WritePort(true, 0x11)          // ICW1: edge, cascade, ICW4 needed
	c.WritePort(false, vectorBase)   // ICW2
	c.WritePort(false, 0x00)         // ICW3 (ignored on non-cascaded test chip)
	c.WritePort(false, 0x01)         // ICW4: 8086 mode
}

// TestPriorityLowestIRQWins drives testable property 3: IRR 3 and 7 both
// pending with empty ISR and IMR=0 must deliver vector base+3 then base+7.
func TestPriorityLowestIRQWins(t *testing.T) {
	c := NewChip(nil, -1)
	initChip(c, 0x08)

	c.Raise(0, 3)
	c.Raise(1, 7)

	v1 := c.VectorBase()
	irq1, ok := c.Highest()
	require.True(t, ok)
	assert.Equal(t, 3, irq1)
	c.isr |= 1 << uint(irq1)
	c.irr &^= 1 << uint(irq1)

	irq2, ok := c.Highest()
	require.True(t, ok)
	assert.Equal(t, 7, irq2)

	assert.Equal(t, byte(0x08), v1)
}

func TestNonSpecificEOIClearsHighestISRBit(t *testing.T) {
	c := NewChip(nil, -1)
	initChip(c, 0x08)
	c.Raise(0, 2)
	c.Raise(0, 5)
	irq, _ := c.Highest()
	c.isr |= 1 << uint(irq)
	c.irr &^= 1 << uint(irq)

	c.WritePort(true, 0x20) // non-specific EOI
	assert.Equal(t, byte(0), c.isr, "non-specific EOI clears the one set ISR bit")
}

func TestSpecificEOIInvalidIndexIsNoOp(t *testing.T) {
	c := NewChip(nil, -1)
	initChip(c, 0x08)
	c.isr = 0x04 // bit 2 in service
	c.WritePort(true, 0x60|0x05) // specific EOI for IR5, which isn't in service
	assert.Equal(t, byte(0x04), c.isr, "specific EOI for an unset bit is a no-op")
}

// TestCascadeDelivery drives scenario D: master ICW3=0x04, slave ICW3=0x02,
// raising slave IR1 (global IRQ9) must assert INTR, and the pair's INTA
// sequence (master IR2 acknowledged, then the slave) must return the
// slave's vector base+1.
func TestCascadeDelivery(t *testing.T) {
	p := NewPair(nil)
	initChip(p.Master, 0x08)
	initChip(p.Slave, 0x70)
	p.WritePort(0x20, 0x11)
	p.WritePort(0x21, 0x08)
	p.WritePort(0x21, 0x04)
	p.WritePort(0x21, 0x01)
	p.WritePort(0xA0, 0x11)
	p.WritePort(0xA1, 0x70)
	p.WritePort(0xA1, 0x02)
	p.WritePort(0xA1, 0x01)

	p.Slave.Raise(0, 1) // IRQ9

	assert.True(t, p.HasINTR())
	vector := p.INTA()
	assert.Equal(t, byte(0x70|0x01), vector)
}

func TestSpuriousINTAReturnsBaseOr7(t *testing.T) {
	c := NewChip(nil, -1)
	initChip(c, 0x08)
	// Nothing pending.
	vector := func() byte {
		if irq, ok := c.Highest(); ok {
			c.isr |= 1 << uint(irq)
			return c.VectorBase() | byte(irq)
		}
		return c.VectorBase() | 0x07
	}()
	assert.Equal(t, byte(0x0F), vector)
}
