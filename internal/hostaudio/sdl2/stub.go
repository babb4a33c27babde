//go:build !sdl2

package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-pcemu/internal/mixer"
)

// Backend stubs out the SDL2 device when built without the sdl2 tag or
// its development libraries, matching the teacher's own sdl2_stub.go.
type Backend struct{}

// New builds the stub backend.
func New(logger *slog.Logger) *Backend { return &Backend{} }

// Open always fails: rebuild with -tags sdl2 and SDL2's headers installed.
func (b *Backend) Open(ring *mixer.Ring, sampleRateHz int) error {
	return fmt.Errorf("sdl2 audio backend not available - compile with -tags sdl2 and install SDL2 development libraries")
}

// Close is a no-op.
func (b *Backend) Close() error { return nil }
