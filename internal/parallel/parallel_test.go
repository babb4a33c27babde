package parallel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const base = 0x378

func TestDataWriteLatchesAndNotifies(t *testing.T) {
	p := New(nil)
	var got byte
	p.OnDataWrite = func(v byte) { got = v }

	p.WritePort(base, base+offsetData, 0x5A)

	_, v := p.ReadPort(base, base+offsetData)
	assert.Equal(t, byte(0x5A), v)
	assert.Equal(t, byte(0x5A), got)
}

func TestControlWriteReportsChangedBits(t *testing.T) {
	p := New(nil)
	var gotValue, gotChanged byte
	p.OnControlWrite = func(value, changed byte) { gotValue, gotChanged = value, changed }

	p.WritePort(base, base+offsetControl, ctrlStrobe|ctrlSelect)
	p.WritePort(base, base+offsetControl, ctrlSelect)

	assert.Equal(t, byte(ctrlSelect), gotValue)
	assert.Equal(t, byte(ctrlStrobe), gotChanged, "only the strobe bit changed on the second write")
}

func TestStrobeFallingEdgeRaisesIRQWhenEnabled(t *testing.T) {
	p := New(nil)
	irqs := 0
	p.RaiseIRQ = func() { irqs++ }

	p.WritePort(base, base+offsetControl, ctrlStrobe|ctrlIRQEnable)
	p.WritePort(base, base+offsetControl, ctrlIRQEnable) // strobe falls
	assert.Equal(t, 1, irqs)

	p.WritePort(base, base+offsetControl, ctrlStrobe|ctrlIRQEnable)
	p.WritePort(base, base+offsetControl, 0) // strobe falls, but IRQ disabled in the new value
	assert.Equal(t, 1, irqs, "disabled-line strobe must not raise an IRQ")
}

func TestStatusReadsExternalBitsWhenWired(t *testing.T) {
	p := New(nil)
	p.StatusBits = func() byte { return 0x55 }

	_, v := p.ReadPort(base, base+offsetStatus)
	assert.Equal(t, byte(0x55), v)
}

func TestStatusFloatsHighWithNoDeviceAttached(t *testing.T) {
	p := New(nil)
	_, v := p.ReadPort(base, base+offsetStatus)
	assert.Equal(t, byte(0xC0), v)
}
