package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// Constants for the PC platform's fixed clocks.
const (
	// OscillatorHz is the 14.31818 MHz crystal every fixed peripheral derives
	// its timing from (the PIT divides it by 12, the NTSC colorburst chain
	// divides it further for the Game Blaster/SAA-1099 pair).
	OscillatorHz = 14318180

	// TicksPerHostFrame is an arbitrary 60Hz status-line refresh budget; it
	// has no bearing on device timing, which always runs off OscillatorHz
	// ticks, not frames.
	TicksPerHostFrame = OscillatorHz / 60
)

// TargetFPS returns the host status-line refresh rate.
func TargetFPS() float64 {
	return 60.0
}

// FrameDuration returns the target duration of a single host status tick.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
