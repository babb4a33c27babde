// Package pcspeaker models the single-bit PC speaker: PIT channel 2's
// square wave gated through the PPI's speaker-data bit, or bit-banged
// directly from software when the PIT gate is closed. Grounded on the
// speaker-bit handling documented alongside the PPI's system control port
// B and wired as a low-priority lane into the shared mixer.
package pcspeaker

// Speaker is a mixer.Source-shaped sample generator: no state of its own
// beyond the two gate/data bits the PPI drives and the PIT channel 2
// output it samples live.
type Speaker struct {
	gate bool // PPI controlB bit0: PIT channel 2 counting gate
	data bool // PPI controlB bit1: speaker data enable / direct-drive bit

	level int16 // full-scale amplitude for the "on" state

	// PITOutput reads PIT channel 2's current square-wave level live; nil
	// reads as low.
	PITOutput func() bool
}

// New constructs a speaker at the documented reset state: gate and data
// both low, i.e. silent.
func New() *Speaker {
	return &Speaker{level: 24000}
}

// SetGate mirrors the PPI's controlB bit0 (OnSpeakerGateChange).
func (s *Speaker) SetGate(high bool) { s.gate = high }

// SetData mirrors the PPI's controlB bit1 (OnSpeakerDataChange).
func (s *Speaker) SetData(high bool) { s.data = high }

// Sample returns the speaker's instantaneous output level: when the PIT
// gate is open, the speaker plays the PIT's square wave ANDed with the
// data-enable bit; when the gate is closed, the data bit drives the
// speaker directly, the classic bit-banged-beep path.
func (s *Speaker) Sample() int16 {
	var high bool
	if s.gate {
		high = s.data && s.pitOutput()
	} else {
		high = s.data
	}
	if high {
		return s.level
	}
	return 0
}

func (s *Speaker) pitOutput() bool {
	if s.PITOutput == nil {
		return false
	}
	return s.PITOutput()
}
