package mixer

// Filter is a single-pole IIR low-pass or high-pass filter, the shape every
// analog output stage (PC speaker, Sound Blaster DAC, Game Blaster) uses to
// tame aliasing before resampling to the host rate.
type Filter struct {
	alpha    float64
	highPass bool
	prevIn   float64
	prevOut  float64
}

// NewLowPass builds a low-pass filter with a -3dB point at cutoffHz given
// the accumulator's native sample rate.
func NewLowPass(cutoffHz, sampleRateHz float64) Filter {
	return Filter{alpha: rcAlpha(cutoffHz, sampleRateHz)}
}

// NewHighPass builds a high-pass filter with the same alpha derivation,
// used to strip the DC bias a duty-cycle DAC output carries.
func NewHighPass(cutoffHz, sampleRateHz float64) Filter {
	return Filter{alpha: rcAlpha(cutoffHz, sampleRateHz), highPass: true}
}

func rcAlpha(cutoffHz, sampleRateHz float64) float64 {
	if cutoffHz <= 0 || sampleRateHz <= 0 {
		return 1 // no filtering
	}
	dt := 1.0 / sampleRateHz
	rc := 1.0 / (2 * 3.14159265358979 * cutoffHz)
	return dt / (rc + dt)
}

// Apply runs one sample through the filter.
func (f *Filter) Apply(in float64) float64 {
	if f.highPass {
		out := f.alpha * (f.prevOut + in - f.prevIn)
		f.prevIn = in
		f.prevOut = out
		return out
	}
	out := f.prevOut + f.alpha*(in-f.prevOut)
	f.prevOut = out
	return out
}
