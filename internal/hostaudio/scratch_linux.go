//go:build linux

package hostaudio

import "golang.org/x/sys/unix"

// ScratchBuffer is the byte buffer a backend's periodic drain loop fills
// from the mixer ring before handing it to the platform audio API. On
// Linux it is backed by an anonymous mmap rather than a GC-managed slice,
// so the drain loop (running close to realtime priority) never faults a
// heap page in or triggers a write barrier mid-callback.
type ScratchBuffer struct {
	mem []byte
}

// NewScratchBuffer allocates a size-byte mmap'd buffer.
func NewScratchBuffer(size int) (*ScratchBuffer, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}
	return &ScratchBuffer{mem: mem}, nil
}

// Bytes returns the backing buffer.
func (s *ScratchBuffer) Bytes() []byte { return s.mem }

// Close unmaps the buffer.
func (s *ScratchBuffer) Close() error {
	if s.mem == nil {
		return nil
	}
	err := unix.Munmap(s.mem)
	s.mem = nil
	return err
}
