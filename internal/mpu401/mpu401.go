// Package mpu401 models the Roland MPU-401's port boundary in UART mode
// only: the 0x330 data register and 0x331 command/status register. Full
// Intelligent-mode command dispatch (conductor tracks, play counters,
// internal clock) is out of scope; this exists so a driver that resets
// the card and switches it into UART passthrough finds a working MIDI
// wire. Grounded on the command/status/data handling in
// hardware/midi/mpu.c, trimmed to that subset.
package mpu401

import "log/slog"

const ackByte = 0xFE

// UART is the MPU-401 UART-mode boundary.
type UART struct {
	logger *slog.Logger

	ackQueue []byte // pending bytes for the next 0x330 read: acks and received bytes, in arrival order

	// Out receives every byte written to the data port while in UART
	// mode: the raw outgoing MIDI stream.
	Out func(b byte)
}

// New constructs a UART-mode MPU-401 boundary.
func New(logger *slog.Logger) *UART {
	if logger == nil {
		logger = slog.Default()
	}
	return &UART{logger: logger}
}

// Receive queues an incoming byte (e.g. from a real MIDI input device)
// for a later 0x330 read, behind any command ack already queued.
func (u *UART) Receive(b byte) {
	u.ackQueue = append(u.ackQueue, b)
}

func (u *UART) readData() byte {
	if len(u.ackQueue) == 0 {
		return ackByte
	}
	b := u.ackQueue[0]
	u.ackQueue = u.ackQueue[1:]
	return b
}

func (u *UART) readStatus() byte {
	status := byte(0x3F) // bits 6,7 clear: data and write both ready
	if len(u.ackQueue) == 0 {
		status |= 0x80 // DSR: no data available to read
	}
	return status
}

// writeCommand queues an ACK for every command byte, including the
// reset/UART-mode-select pair every driver probes for; no mode state is
// kept, matching the real part's unconditional trailing ACK.
func (u *UART) writeCommand(val byte) {
	u.ackQueue = append(u.ackQueue, ackByte)
}

func (u *UART) writeData(val byte) {
	if u.Out != nil {
		u.Out(val)
	}
}
