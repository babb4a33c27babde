package mixer

import "sync/atomic"

// Ring is a single-producer/single-consumer lock-free ring of stereo int16
// frames, sized as a power of two so index wrap is a mask instead of a mod.
// The mixer tick is the sole producer; a host audio callback is the sole
// consumer, so no lock is needed beyond the atomic read/write indices.
type Ring struct {
	buf        []int16 // interleaved L,R pairs
	mask       uint32  // frames-1
	writeIndex atomic.Uint32
	readIndex  atomic.Uint32
}

// NewRing allocates a ring holding framesPow2 stereo frames (rounded up to
// the next power of two).
func NewRing(framesPow2 int) *Ring {
	n := 1
	for n < framesPow2 {
		n <<= 1
	}
	return &Ring{buf: make([]int16, n*2), mask: uint32(n - 1)}
}

// PushFrame appends one stereo frame; when the ring is full it drops the
// oldest frame rather than blocking the mixer tick, matching a double
// buffer's "producer never stalls the emulated core" contract.
func (r *Ring) PushFrame(left, right int16) {
	w := r.writeIndex.Load()
	rIdx := r.readIndex.Load()
	if w-rIdx > r.mask {
		r.readIndex.Store(rIdx + 1) // drop oldest
	}
	idx := (w & r.mask) * 2
	r.buf[idx] = left
	r.buf[idx+1] = right
	r.writeIndex.Store(w + 1)
}

// PopFrame drains one stereo frame; ok is false when the ring is empty, in
// which case the host audio callback should pad with silence.
func (r *Ring) PopFrame() (left, right int16, ok bool) {
	rIdx := r.readIndex.Load()
	w := r.writeIndex.Load()
	if rIdx == w {
		return 0, 0, false
	}
	idx := (rIdx & r.mask) * 2
	left, right = r.buf[idx], r.buf[idx+1]
	r.readIndex.Store(rIdx + 1)
	return left, right, true
}

// Available reports how many frames are queued for the consumer.
func (r *Ring) Available() int {
	return int(r.writeIndex.Load() - r.readIndex.Load())
}
