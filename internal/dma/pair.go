// Package dma implements a chained pair of 8237A DMA controllers: an
// 8-bit-wide controller 0 (channels 0-3, word shift 0) and a 16-bit-wide
// controller 1 (channels 4-7, word shift 1), with controller 0's channel 4
// equivalent (controller 1 channel 0) wired to cascade into controller 0 on
// IR... no: per the real wiring, controller 1's channel 0 (DMA4) cascades
// into controller 0, and its mode is forced to 0xC0 so it is never treated
// as a real transfer channel.
package dma

import (
	"log/slog"
)

// pageRegOffsetToChannel maps the non-contiguous page-register port offsets (within
// 0x80-0x8F) to (controller, channel). Channel 0's own page (the cascade
// channel on controller 1) lives at offset 0x07/0x8F; offsets 0x04-0x06 and
// 0x00 are unused 286-BIOS scratch bytes that some BIOSes probe but that
// have no transfer effect.
var pageRegOffsetToChannel = map[byte]int{
	0x07: 0,
	0x03: 1,
	0x01: 2,
	0x02: 3,
}

// Pair owns both 8237A controllers and drives the shared SI..S4 state
// machine across whichever controller currently has a runnable channel.
type Pair struct {
	logger      *slog.Logger
	Controllers [2]*Controller

	scratch [2][4]byte // 286-BIOS extra page-register storage, per controller

	// state machine, shared: only one controller may own the bus at a time.
	state          state
	owner          int // index of the controller currently in S1-S4
	activeChannel  int
	waitStates     int
}

// NewPair constructs a DMA pair with both controllers masked (power-on
// default) and controller 1 channel 0 forced into cascade mode so it is
// never scheduled as a real transfer channel.
func NewPair(logger *slog.Logger) *Pair {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pair{logger: logger}
	p.Controllers[0] = newController(0, logger)
	p.Controllers[1] = newController(1, logger)
	p.Controllers[0].reset()
	p.Controllers[1].reset()
	p.Controllers[1].channels[0].setMode(modeCascade)
	p.state = stateSI
	return p
}

// Channel returns channel n (0-7) across the pair: 0-3 on controller 0,
// 4-7 on controller 1.
func (p *Pair) Channel(n int) *Channel {
	if n < 4 {
		return p.Controllers[0].Channel(n)
	}
	return p.Controllers[1].Channel(n - 4)
}

// SetDREQ raises or lowers DREQ for channel n (0-7) of the pair.
func (p *Pair) SetDREQ(n int, level bool) {
	if n < 4 {
		p.Controllers[0].SetDREQ(n, level)
	} else {
		p.Controllers[1].SetDREQ(n-4, level)
	}
}

// ReadPort implements bus.PortDevice for the combined DMA port footprint:
// 0x00-0x0F (controller 0), 0xC0-0xDE even (controller 1, word strided),
// 0x80-0x8F (page registers, non-contiguous channel mapping).
func (p *Pair) ReadPort(port uint16) (bool, byte) {
	if port <= 0x0F {
		return p.Controllers[0].readPort(byte(port))
	}
	if port >= 0xC0 && port <= 0xDE {
		if port&1 != 0 {
			return false, 0
		}
		return p.Controllers[1].readPort(byte((port - 0xC0) >> 1))
	}
	if port >= 0x80 && port <= 0x8F {
		return p.readPageRegister(port)
	}
	return false, 0
}

// WritePort implements bus.PortDevice for the same footprint as ReadPort.
func (p *Pair) WritePort(port uint16, value byte) bool {
	if port <= 0x0F {
		return p.Controllers[0].writePort(byte(port), value)
	}
	if port >= 0xC0 && port <= 0xDE {
		if port&1 != 0 {
			return false
		}
		return p.Controllers[1].writePort(byte((port-0xC0)>>1), value)
	}
	if port >= 0x80 && port <= 0x8F {
		return p.writePageRegister(port, value)
	}
	return false
}

func (p *Pair) pageControllerAndOffset(port uint16) (controller int, offset byte) {
	offset = byte(port - 0x80)
	controller = 0
	if offset >= 8 {
		controller = 1
		offset -= 8
	}
	return
}

func (p *Pair) readPageRegister(port uint16) (bool, byte) {
	controller, offset := p.pageControllerAndOffset(port)
	if ch, ok := pageRegOffsetToChannel[offset]; ok {
		return true, p.Controllers[controller].channels[ch].Page()
	}
	if idx := scratchIndex(offset); idx >= 0 {
		return true, p.scratch[controller][idx]
	}
	return false, 0
}

func (p *Pair) writePageRegister(port uint16, value byte) bool {
	controller, offset := p.pageControllerAndOffset(port)
	if ch, ok := pageRegOffsetToChannel[offset]; ok {
		p.Controllers[controller].channels[ch].SetPage(value)
		return true
	}
	if idx := scratchIndex(offset); idx >= 0 {
		p.scratch[controller][idx] = value
		return true
	}
	return false
}

// scratchIndex maps the 286-BIOS extra page-register offsets (0x00, 0x04,
// 0x05, 0x06) to a 0-3 storage slot; -1 if offset is not one of them.
func scratchIndex(offset byte) int {
	switch offset {
	case 0x00:
		return 3
	case 0x04:
		return 0
	case 0x05:
		return 1
	case 0x06:
		return 2
	default:
		return -1
	}
}
