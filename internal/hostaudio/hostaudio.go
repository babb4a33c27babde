// Package hostaudio defines the sink every platform audio backend drains
// the mixer's output ring into, plus the realtime-safe scratch allocator
// backends pull their per-callback byte buffer from.
package hostaudio

import "github.com/valerio/go-pcemu/internal/mixer"

// Device is a host audio output stream. Open starts it draining stereo
// frames from ring at sampleRateHz until Close stops it; a Device that
// cannot actually reach an audio subsystem (the no-build-tag stub) returns
// an error from Open rather than silently discarding audio.
type Device interface {
	Open(ring *mixer.Ring, sampleRateHz int) error
	Close() error
}
