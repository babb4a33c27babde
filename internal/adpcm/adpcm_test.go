package adpcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeIsDeterministic(t *testing.T) {
	d1 := New4Bit()
	d1.SetReference(0x80)
	d2 := New4Bit()
	d2.SetReference(0x80)

	stream := []byte{0x12, 0x34, 0xFF, 0x00, 0x77}
	var out1, out2 []byte
	for _, b := range stream {
		out1 = append(out1, d1.Decode(b)...)
	}
	for _, b := range stream {
		out2 = append(out2, d2.Decode(b)...)
	}
	assert.Equal(t, out1, out2, "decoding the same stream from the same reference must be deterministic")
}

func TestDecodeNibblesNeverUnderflowOrOverflowByte(t *testing.T) {
	d := New4Bit()
	d.SetReference(0x00)
	for i := 0; i < 256; i++ {
		for _, s := range d.Decode(byte(i)) {
			assert.GreaterOrEqual(t, int(s), 0)
			assert.LessOrEqual(t, int(s), 255)
		}
	}
}

func Test2BitProducesFourSamplesPerByte(t *testing.T) {
	d := New2Bit()
	d.SetReference(0x80)
	out := d.Decode(0xE4)
	assert.Len(t, out, 4)
}

func Test26BitProducesThreeSamplesPerByte(t *testing.T) {
	d := New26Bit()
	d.SetReference(0x80)
	out := d.Decode(0xE4)
	assert.Len(t, out, 3)
}

func Test4BitProducesTwoSamplesPerByte(t *testing.T) {
	d := New4Bit()
	d.SetReference(0x80)
	out := d.Decode(0xE4)
	assert.Len(t, out, 2)
}
