// Package statusline draws a single-row tcell debug strip: the master and
// slave PIC mask bytes, which DMA channel (if any) is currently unmasked,
// and whether the core wants to assert an interrupt. This is the narrow
// debug aid a driver author would glance at while bringing up a card, not
// the full on-screen text-mode status display (out of scope for this
// core, which renders no video of its own). Grounded on the teacher's
// jeebie/backend/terminal/terminal.go SetContent-per-cell row drawing.
package statusline

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-pcemu/pcemu"
)

// Line owns the single screen row this package draws into.
type Line struct {
	screen tcell.Screen
	row    int
	style  tcell.Style
	logger *slog.Logger
}

// New wraps an already-initialized tcell.Screen; row is typically the
// last row of the terminal.
func New(screen tcell.Screen, row int, logger *slog.Logger) *Line {
	if logger == nil {
		logger = slog.Default()
	}
	return &Line{
		screen: screen,
		row:    row,
		style:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
		logger: logger,
	}
}

// Relocate moves the owned row, for callers that re-derive it from the
// screen's size on a resize event.
func (l *Line) Relocate(row int) {
	l.row = row
}

// Draw renders the current status text into the owned row and flips it to
// the screen. It touches only that row, so callers compose it alongside
// their own frame rendering rather than owning the whole screen.
func (l *Line) Draw(core *pcemu.Core) {
	text := Format(core)
	width, _ := l.screen.Size()
	for x := 0; x < width; x++ {
		ch := rune(' ')
		if x < len(text) {
			ch = rune(text[x])
		}
		l.screen.SetContent(x, l.row, ch, nil, l.style)
	}
	l.screen.Show()
}

// Format renders the same text Draw writes without touching a screen;
// RenderGlyphStrip builds on it.
func Format(core *pcemu.Core) string {
	_, masterIMR := core.ReadPort(0x21)
	_, slaveIMR := core.ReadPort(0xA1)

	dmaActive := "-"
	for i := 0; i < 8; i++ {
		if ch := core.DMA.Channel(i); ch != nil && !ch.Masked() {
			dmaActive = fmt.Sprintf("%d", i)
			break
		}
	}

	return fmt.Sprintf("PIC master-imr=%02X slave-imr=%02X  DMA active=%s  INTR=%v",
		masterIMR, slaveIMR, dmaActive, core.HasINTR())
}
