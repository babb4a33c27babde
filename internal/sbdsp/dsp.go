// Package sbdsp implements the Sound Blaster DSP command/parameter state
// machine: direct and DMA-driven 8-bit PCM and ADPCM playback, the speaker
// mute switch, and the IRQ/DMA interlock the DOS TSR/driver stack expects.
package sbdsp

import (
	"log/slog"

	"github.com/valerio/go-pcemu/internal/adpcm"
)

// reset FSM states, mirroring the "pulse 1 then 0 on the reset port" protocol.
type resetState int

const (
	resetIdle resetState = iota
	resetArmed
)

// cmdKind distinguishes how DSP_writeCommand's parameter/data phases behave
// once a command byte has fully landed.
type cmdKind int

const (
	kindNone cmdKind = iota
	kindDirectDAC
	kindDirectADC
	kindDSPStatus
	kindDMA8
	kindADPCM
	kindSetTimeConstant
	kindSetBlockSize
	kindSilence
	kindSpeakerOn
	kindSpeakerOff
	kindSpeakerStatus
	kindHaltDMA
	kindContinueDMA
	kindExitAutoInit
	kindIdentify
	kindVersion
	kindForceIRQ
	kindTestWrite
	kindTestRead
)

// transferDirection distinguishes a DMA8 command that drains the DMA
// channel into the DAC (playback) from one that fills it from the ADC
// (recording); ADPCM commands are always playback, so they carry the zero
// value and ignore the field.
type transferDirection int

const (
	dirPlayback transferDirection = iota
	dirRecord
)

type command struct {
	kind      cmdKind
	params    int
	adpcm     byte // adpcm.New* selector: 0 none, 2/3/4 per Decoder.bits
	ref       bool
	autoRun   bool // auto-init variant: reuses the last block size, no length param
	direction transferDirection
}

var commandTable = map[byte]command{
	0x04: {kind: kindDSPStatus},
	0x10: {kind: kindDirectDAC, params: 1},
	0x14: {kind: kindDMA8, params: 2},
	0x1C: {kind: kindDMA8, params: 0, autoRun: true},
	0x20: {kind: kindDirectADC},
	0x24: {kind: kindDMA8, params: 2, direction: dirRecord},
	0x2C: {kind: kindDMA8, params: 0, autoRun: true, direction: dirRecord},
	0x90: {kind: kindDMA8, params: 2},
	0x91: {kind: kindDMA8, params: 2},
	0x98: {kind: kindDMA8, params: 0, autoRun: true, direction: dirRecord},
	0x16: {kind: kindADPCM, params: 2, adpcm: 2},
	0x17: {kind: kindADPCM, params: 2, adpcm: 2, ref: true},
	0x1F: {kind: kindADPCM, params: 0, adpcm: 2, ref: true, autoRun: true},
	0x74: {kind: kindADPCM, params: 2, adpcm: 4},
	0x75: {kind: kindADPCM, params: 2, adpcm: 4, ref: true},
	0x7D: {kind: kindADPCM, params: 0, adpcm: 4, ref: true, autoRun: true},
	0x76: {kind: kindADPCM, params: 2, adpcm: 3},
	0x77: {kind: kindADPCM, params: 2, adpcm: 3, ref: true},
	0x7F: {kind: kindADPCM, params: 0, adpcm: 3, ref: true, autoRun: true},
	0x40: {kind: kindSetTimeConstant, params: 1},
	0x48: {kind: kindSetBlockSize, params: 2},
	0x80: {kind: kindSilence, params: 2},
	0xD1: {kind: kindSpeakerOn},
	0xD3: {kind: kindSpeakerOff},
	0xD8: {kind: kindSpeakerStatus},
	0xD0: {kind: kindHaltDMA},
	0xD4: {kind: kindContinueDMA},
	0xDA: {kind: kindExitAutoInit},
	0xE0: {kind: kindIdentify, params: 1},
	0xE1: {kind: kindVersion},
	0xE4: {kind: kindTestWrite, params: 1},
	0xE8: {kind: kindTestRead},
	0xF2: {kind: kindForceIRQ},
}

// DSP is one Sound Blaster DSP chip.
type DSP struct {
	logger *slog.Logger

	version uint16

	reset    resetState
	inFIFO   []byte // DSPindata: bytes the CPU reads via port 0xA (identify echo, version, status)
	pending  command
	params   []byte
	haveCmd  bool

	timeConstant      byte
	timeConstantDirty bool

	muted     bool
	dreq      bool
	autoInit  bool
	recording bool // current DMA8 transfer pulls from Input/WriteDMAByte rather than ReadDMAByte/Output
	blockSize uint16
	dataLeft  uint32

	decoder      *adpcm.Decoder
	testRegister byte

	// RaiseIRQ signals the 8-bit DSP IRQ (wired to IRQ5 on most boards).
	RaiseIRQ func()
	// SetDREQ drives the DMA channel this DSP is wired to (channel 1, 8-bit).
	SetDREQ func(bool)
	// WriteDMAByte/ReadDMAByte move one PCM byte across the DMA channel for
	// DAC/ADC transfers; the core wires these to the DMA pair's channel.
	WriteDMAByte func(b byte)
	ReadDMAByte  func() (byte, bool)
	// Output receives one decoded 8-bit unsigned PCM sample as it's produced.
	Output func(sample byte)
	// Input supplies one digitized 8-bit unsigned PCM sample per recording
	// tick (Direct ADC or a DMA8 command in dirRecord); nil reads as digital
	// silence (0x80, unsigned PCM's zero crossing).
	Input func() byte
}

// New constructs a DSP reporting versionMajor.versionMinor (2.01 is the
// common "supports everything but SB16" baseline).
func New(versionMajor, versionMinor byte, logger *slog.Logger) *DSP {
	if logger == nil {
		logger = slog.Default()
	}
	return &DSP{
		logger:       logger,
		version:      uint16(versionMajor)<<8 | uint16(versionMinor),
		timeConstant: 0,
	}
}

// sample reads one digitized byte from Input, or silence if none is wired.
func (d *DSP) sample() byte {
	if d.Input != nil {
		return d.Input()
	}
	return 0x80
}

// SampleRateHz returns the playback rate the last Set Time Constant command
// selected, per the DSP's "sampleRate = 1000000/(256-TC)" law.
func (d *DSP) SampleRateHz() float64 {
	denom := 256 - int(d.timeConstant)
	if denom <= 0 {
		return 0
	}
	return 1000000.0 / float64(denom)
}
