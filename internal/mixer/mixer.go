// Package mixer accumulates every analog-output peripheral's samples at
// its own native rate, filters and downsamples them to one host audio
// rate, and exposes the result through a lock-free ring a host audio
// backend drains from its callback.
package mixer

import "log/slog"

// Source is one analog-output peripheral tapped by the mixer: PC speaker,
// Sound Blaster DAC/DSP, Game Blaster's SAA-1099 pair, or the Disney Sound
// Source. Sample returns the source's current instantaneous level in the
// -32768..32767 range and whether it should be summed into the left/right
// lanes this tick.
type Source struct {
	Name        string
	Left, Right bool
	Sample      func() int16
	lowpass     Filter
}

// Mixer owns the accumulate-then-downsample pipeline: sources are summed
// every native tick into mixLeftAcc/mixRightAcc (the "output" stage of the
// double-buffer trio), and every time the accumulated cycle count crosses
// one host sample period the average is filtered and pushed to Out (the
// "shared" stage feeding whatever drains it, e.g. the SDL2 callback's
// "input" stage).
type Mixer struct {
	logger *slog.Logger

	sources []*Source

	nativeHz float64
	hostHz   float64

	mixLeftAcc, mixRightAcc int64
	accCycles               int64
	cycleAcc                float64
	cyclesPerSample         float64

	masterLeft, masterRight Filter

	Out *Ring
}

// New builds a mixer running at nativeHz (the tick rate Mix is called at)
// downsampling to hostHz, with ringFrames of backpressure before the
// oldest queued frame is dropped.
func New(nativeHz, hostHz float64, ringFrames int, logger *slog.Logger) *Mixer {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mixer{
		logger:          logger,
		nativeHz:        nativeHz,
		hostHz:          hostHz,
		cyclesPerSample: nativeHz / hostHz,
		masterLeft:      NewLowPass(hostHz/2/16, hostHz),
		masterRight:     NewLowPass(hostHz/2/16, hostHz),
		Out:             NewRing(ringFrames),
	}
	return m
}

// AddSource registers a peripheral output lane; order doesn't matter since
// every source is summed.
func (m *Mixer) AddSource(s *Source) {
	s.lowpass = NewLowPass(m.nativeHz/2/16, m.nativeHz)
	m.sources = append(m.sources, s)
}

// Tick advances the mixer by n native-rate ticks: every source is sampled
// once, summed per channel, accumulated, and downsampled into Out whenever
// enough native ticks have elapsed to cross a host sample boundary.
func (m *Mixer) Tick(n int) {
	if n <= 0 {
		return
	}
	var left, right int64
	for _, s := range m.sources {
		if s.Sample == nil {
			continue
		}
		v := float64(s.Sample())
		v = s.lowpass.Apply(v)
		if s.Left {
			left += int64(v)
		}
		if s.Right {
			right += int64(v)
		}
	}

	m.mixLeftAcc += left * int64(n)
	m.mixRightAcc += right * int64(n)
	m.accCycles += int64(n)

	m.cycleAcc += float64(n)
	if m.cyclesPerSample <= 0 || m.cycleAcc < m.cyclesPerSample {
		return
	}
	m.cycleAcc -= m.cyclesPerSample
	m.flush()
}

func (m *Mixer) flush() {
	if m.accCycles == 0 {
		return
	}
	leftAvg := float64(m.mixLeftAcc) / float64(m.accCycles)
	rightAvg := float64(m.mixRightAcc) / float64(m.accCycles)
	m.mixLeftAcc, m.mixRightAcc, m.accCycles = 0, 0, 0

	leftAvg = m.masterLeft.Apply(leftAvg)
	rightAvg = m.masterRight.Apply(rightAvg)

	m.Out.PushFrame(clampSample(leftAvg), clampSample(rightAvg))
}

func clampSample(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
