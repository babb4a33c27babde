// Package adpcm implements the Creative Labs 2-bit, 2.6-bit and 4-bit
// ADPCM decoders the Sound Blaster DSP's compressed DMA playback commands
// feed samples through.
package adpcm

// Decoder holds the running reference sample and scale index shared across
// a stream of compressed nibbles/crumbs/dibits; a fresh Decoder (or one
// reset via SetReference) must be used whenever the DSP command carries a
// reference byte.
type Decoder struct {
	bits      int // 2, 3 (2.6-bit), or 4
	reference byte
	scale     int32
}

// New4Bit, New26Bit and New2Bit construct decoders for the three Sound
// Blaster DSP ADPCM command families.
func New4Bit() *Decoder  { return &Decoder{bits: 4} }
func New26Bit() *Decoder { return &Decoder{bits: 3} }
func New2Bit() *Decoder  { return &Decoder{bits: 2} }

// SetReference loads the decoder's reference byte, as the DSP's "ADPCM
// reference" command variants (0x17, 0x1F, 0x75, 0x7D, 0x77, 0x7F) do with
// the first DMA byte of the stream instead of treating it as data.
func (d *Decoder) SetReference(ref byte) {
	d.reference = ref
	d.scale = 0
}

// Decode unpacks one compressed byte into its constituent samples (2 for
// 4-bit, 4 for 2-bit, 3 for 2.6-bit: two 3-bit codes in bits 7-5 and 4-2,
// then a 2-bit code in bits 1-0) and returns the decoded 8-bit PCM samples
// in stream order.
func (d *Decoder) Decode(b byte) []byte {
	switch d.bits {
	case 4:
		return []byte{
			d.step(b >> 4),
			d.step(b & 0x0F),
		}
	case 2:
		return []byte{
			d.step(b >> 6),
			d.step((b >> 4) & 0x3),
			d.step((b >> 2) & 0x3),
			d.step(b & 0x3),
		}
	case 3:
		// 2.6-bit packs 3 codes per byte: 3 + 3 + 2 bits, the last code
		// shifted left one place to index the same 3-bit table.
		return []byte{
			d.step((b >> 5) & 0x7),
			d.step((b >> 2) & 0x7),
			d.step((b << 1) & 0x7),
		}
	}
	return nil
}

func (d *Decoder) step(code byte) byte {
	switch d.bits {
	case 4:
		return decode4(code, &d.reference, &d.scale)
	case 2:
		return decode2(code, &d.reference, &d.scale)
	case 3:
		return decode3(code, &d.reference, &d.scale)
	}
	return d.reference
}

var scaleMap4 = [64]int32{
	0, 1, 2, 3, 4, 5, 6, 7, 0, -1, -2, -3, -4, -5, -6, -7,
	1, 3, 5, 7, 9, 11, 13, 15, -1, -3, -5, -7, -9, -11, -13, -15,
	2, 6, 10, 14, 18, 22, 26, 30, -2, -6, -10, -14, -18, -22, -26, -30,
	4, 12, 20, 28, 36, 44, 52, 60, -4, -12, -20, -28, -36, -44, -52, -60,
}

var adjustMap4 = [64]int32{
	0, 0, 0, 0, 0, 16, 16, 16,
	0, 0, 0, 0, 0, 16, 16, 16,
	240, 0, 0, 0, 0, 16, 16, 16,
	240, 0, 0, 0, 0, 16, 16, 16,
	240, 0, 0, 0, 0, 16, 16, 16,
	240, 0, 0, 0, 0, 16, 16, 16,
	240, 0, 0, 0, 0, 0, 0, 0,
	240, 0, 0, 0, 0, 0, 0, 0,
}

var scaleMap2 = [24]int32{
	0, 1, 0, -1, 1, 3, -1, -3,
	2, 6, -2, -6, 4, 12, -4, -12,
	8, 24, -8, -24, 6, 48, -16, -48,
}

var adjustMap2 = [24]int32{
	0, 4, 0, 4,
	252, 4, 252, 4, 252, 4, 252, 4,
	252, 4, 252, 4, 252, 4, 252, 4,
	252, 0, 252, 0,
}

var scaleMap3 = [40]int32{
	0, 1, 2, 3, 0, -1, -2, -3,
	1, 3, 5, 7, -1, -3, -5, -7,
	2, 6, 10, 14, -2, -6, -10, -14,
	4, 12, 20, 28, -4, -12, -20, -28,
	5, 15, 25, 35, -5, -15, -25, -35,
}

var adjustMap3 = [40]int32{
	0, 0, 0, 8, 0, 0, 0, 8,
	248, 0, 0, 8, 248, 0, 0, 8,
	248, 0, 0, 8, 248, 0, 0, 8,
	248, 0, 0, 8, 248, 0, 0, 8,
	248, 0, 0, 0, 248, 0, 0, 0,
}

func decodeTable(sample byte, reference *byte, scale *int32, scaleMap, adjustMap []int32) byte {
	samp := int32(sample) + *scale
	if samp < 0 {
		samp = 0
	}
	if samp >= int32(len(scaleMap)) {
		samp = int32(len(scaleMap)) - 1
	}
	ref := int32(*reference) + scaleMap[samp]
	switch {
	case ref > 0xFF:
		*reference = 0xFF
	case ref < 0:
		*reference = 0
	default:
		*reference = byte(ref)
	}
	*scale = (*scale + adjustMap[samp]) & 0xFF
	return *reference
}

func decode4(sample byte, reference *byte, scale *int32) byte {
	return decodeTable(sample, reference, scale, scaleMap4[:], adjustMap4[:])
}

func decode2(sample byte, reference *byte, scale *int32) byte {
	return decodeTable(sample, reference, scale, scaleMap2[:], adjustMap2[:])
}

func decode3(sample byte, reference *byte, scale *int32) byte {
	return decodeTable(sample, reference, scale, scaleMap3[:], adjustMap3[:])
}
