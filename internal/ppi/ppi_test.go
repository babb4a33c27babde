package ppi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/periph/conn/gpio"
)

func TestScancodeLatchReadsBackLastPush(t *testing.T) {
	p := New(nil)
	p.PushScancode(0x1E) // 'A' make code

	_, v := p.ReadPort(portScancode)
	assert.Equal(t, byte(0x1E), v)
}

func TestSpeakerGateChangeFiresOnTransitionOnly(t *testing.T) {
	p := New(nil)
	var calls int
	var last gpio.Level
	p.OnSpeakerGateChange = func(level gpio.Level) { calls++; last = level }

	p.WritePort(portControlB, 0x01) // gate on, data off
	p.WritePort(portControlB, 0x01) // no change: must not refire
	p.WritePort(portControlB, 0x03) // data on too: gate bit unchanged

	assert.Equal(t, 1, calls)
	assert.Equal(t, gpio.High, last)
}

func TestSpeakerDataChangeTracksBit1Independently(t *testing.T) {
	p := New(nil)
	var data []gpio.Level
	p.OnSpeakerDataChange = func(level gpio.Level) { data = append(data, level) }

	p.WritePort(portControlB, 0x02)
	p.WritePort(portControlB, 0x00)

	assert.Equal(t, []gpio.Level{gpio.High, gpio.Low}, data)
}

func TestControlBReadbackReflectsPITChannel2AndRefresh(t *testing.T) {
	p := New(nil)
	p.PITChannel2Output = func() gpio.Level { return gpio.High }
	p.RefreshToggle = func() gpio.Level { return gpio.Low }

	_, v := p.ReadPort(portControlB)
	assert.NotZero(t, v&0x20, "bit5 mirrors the live PIT channel 2 output")
	assert.Zero(t, v&0x10, "bit4 mirrors the refresh toggle")
}

func TestA20GateFiresOnlyOnBitTransition(t *testing.T) {
	p := New(nil)
	var states []gpio.Level
	p.OnA20Change = func(level gpio.Level) { states = append(states, level) }

	p.WritePort(portControlA, 0x02) // A20 enabled
	p.WritePort(portControlA, 0x02) // unchanged
	p.WritePort(portControlA, 0x00) // disabled

	assert.Equal(t, []gpio.Level{gpio.High, gpio.Low}, states)
}

func TestFastResetFiresOnBitSetAndIsNotLatched(t *testing.T) {
	p := New(nil)
	var resets int
	p.OnFastReset = func() { resets++ }

	p.WritePort(portControlA, 0x01)
	_, v := p.ReadPort(portControlA)

	assert.Equal(t, 1, resets)
	assert.Zero(t, v&0x01, "the reset bit is a pulse, never latched for readback")
}

func TestNMIMaskPortReflectsInvertedEnableBit(t *testing.T) {
	p := New(nil)
	p.WritePort(portNMIMask, 0x80) // NMI enabled
	_, v := p.ReadPort(portNMIMask)
	assert.Equal(t, byte(0x80), v)

	p.WritePort(portNMIMask, 0x00) // NMI masked off
	_, v = p.ReadPort(portNMIMask)
	assert.Zero(t, v)
}
