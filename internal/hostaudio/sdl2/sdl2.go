//go:build sdl2

// Package sdl2 drains the mixer's output ring through an SDL2 audio
// device, queued rather than callback-driven. Grounded on the queued-audio
// pattern in the teacher's own jeebie/backend/sdl2/sdl2.go
// (queueAudioSamples/initAudio): poll the device's queued-byte backlog and
// top it up to a target depth instead of blocking inside SDL's callback.
package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-pcemu/internal/hostaudio"
	"github.com/valerio/go-pcemu/internal/mixer"
	"github.com/veandco/go-sdl2/sdl"
)

const targetQueuedBytes = 2048 * 4 // ~2048 stereo frames of backlog

// Backend is a hostaudio.Device backed by an SDL2 audio device.
type Backend struct {
	logger   *slog.Logger
	deviceID sdl.AudioDeviceID
	scratch  *hostaudio.ScratchBuffer
	stop     chan struct{}
}

// New builds an unopened SDL2 audio backend.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

// Open starts a background drain loop topping up the SDL2 device's queue
// from ring every time its backlog falls below targetQueuedBytes.
func (b *Backend) Open(ring *mixer.Ring, sampleRateHz int) error {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl2 audio init: %w", err)
	}

	scratch, err := hostaudio.NewScratchBuffer(targetQueuedBytes)
	if err != nil {
		return fmt.Errorf("scratch buffer: %w", err)
	}
	b.scratch = scratch

	spec := &sdl.AudioSpec{
		Freq:     int32(sampleRateHz),
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  512,
	}
	obtained := &sdl.AudioSpec{}
	deviceID, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	b.deviceID = deviceID
	sdl.PauseAudioDevice(deviceID, false)
	b.logger.Info("sdl2 audio opened", "freq", obtained.Freq, "samples", obtained.Samples)

	b.stop = make(chan struct{})
	go b.drainLoop(ring)
	return nil
}

func (b *Backend) drainLoop(ring *mixer.Ring) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.queueFrom(ring)
		}
	}
}

func (b *Backend) queueFrom(ring *mixer.Ring) {
	queued := sdl.GetQueuedAudioSize(b.deviceID)
	if queued >= targetQueuedBytes {
		return
	}
	buf := b.scratch.Bytes()
	need := int(targetQueuedBytes-queued) / 4 * 4
	if need > len(buf) {
		need = len(buf)
	}
	n := 0
	for n+4 <= need {
		left, right, ok := ring.PopFrame()
		if !ok {
			break
		}
		binary.LittleEndian.PutUint16(buf[n:], uint16(left))
		binary.LittleEndian.PutUint16(buf[n+2:], uint16(right))
		n += 4
	}
	if n == 0 {
		return
	}
	sdl.QueueAudio(b.deviceID, buf[:n])
}

// Close stops the drain loop and releases the SDL2 device.
func (b *Backend) Close() error {
	if b.stop != nil {
		close(b.stop)
	}
	if b.deviceID != 0 {
		sdl.CloseAudioDevice(b.deviceID)
	}
	if b.scratch != nil {
		return b.scratch.Close()
	}
	return nil
}
