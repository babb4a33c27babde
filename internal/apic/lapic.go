// Package apic implements the optional xAPIC extension: a per-CPU LAPIC
// memory-mapped register block plus a shared IOAPIC redirection fabric.
// Only constructed when the core is configured for APIC mode; boards
// without it rely solely on the 8259A pair in package pic.
package apic

import "log/slog"

// DeliveryMode mirrors the ICR/redirection-entry delivery-mode field.
type DeliveryMode uint8

const (
	DeliveryFixed DeliveryMode = iota
	DeliveryLowestPriority
	DeliverySMI
	deliveryReserved
	DeliveryNMI
	DeliveryINIT
	DeliveryStartup
	DeliveryExtINT
)

// LVT is one Local Vector Table entry (timer, thermal, PMC, LINT0, LINT1, error).
type LVT struct {
	Vector     byte
	Delivery   DeliveryMode
	DeliveryS  bool // delivery status: pending (true) until accepted
	PinPolarity bool
	RemoteIRR  bool
	TriggerLevel bool
	Masked     bool
}

func (l LVT) encode() uint32 {
	v := uint32(l.Vector)
	v |= uint32(l.Delivery) << 8
	if l.DeliveryS {
		v |= 1 << 12
	}
	if l.PinPolarity {
		v |= 1 << 13
	}
	if l.RemoteIRR {
		v |= 1 << 14
	}
	if l.TriggerLevel {
		v |= 1 << 15
	}
	if l.Masked {
		v |= 1 << 16
	}
	return v
}

func decodeLVT(v uint32) LVT {
	return LVT{
		Vector:       byte(v),
		Delivery:     DeliveryMode((v >> 8) & 0x7),
		DeliveryS:    v&(1<<12) != 0,
		PinPolarity:  v&(1<<13) != 0,
		RemoteIRR:    v&(1<<14) != 0,
		TriggerLevel: v&(1<<15) != 0,
		Masked:       v&(1<<16) != 0,
	}
}

// timerDivisors maps the 4-bit (really 3-bit + high bit) divide-configuration
// encoding to an actual divisor; index 7 = divide-by-1.
var timerDivisors = [8]int{2, 4, 8, 16, 32, 64, 128, 1}

// LAPIC is one CPU's local APIC: priority registers, ISR/IRR/TMR vector
// arrays, LVT entries, the timer, and the ICR pair for IPI dispatch.
type LAPIC struct {
	logger *slog.Logger

	ID      byte
	Version byte

	tpr, ppr, apr byte

	isr [8]uint32 // 256-bit vector arrays, indexed [vector/32][bit vector%32]
	irr [8]uint32
	tmr [8]uint32

	spuriousVector byte
	softEnabled    bool

	lvtTimer, lvtThermal, lvtPMC, lvtLINT0, lvtLINT1, lvtError LVT

	timerInitialCount uint32
	timerCurrentCount uint32
	timerDivide       uint8 // 0-7, see timerDivisors
	timerPeriodic     bool
	timerDirty        bool

	icrLow, icrHigh uint32

	errorStatus byte
	errorDirty  bool

	// SendIPI is how this LAPIC reaches other LAPICs in the system. Core
	// does not set it; while it is nil every ICR send only sets the
	// send-accept error (ESR bit 2).
	SendIPI func(dest byte, shorthand uint8, mode DeliveryMode, vector byte, level, trigger bool)

	// RequestFromPIC lets an extINT-mode LINT0 pull a vector from the
	// 8259A pair's INTA sequence, matching the LINT0 wire behaviour.
	RequestFromPIC func() (vector byte, ok bool)
}

// New constructs a LAPIC with its reset state: 0xFF in SVR, every LVT masked.
func New(id byte, logger *slog.Logger) *LAPIC {
	if logger == nil {
		logger = slog.Default()
	}
	l := &LAPIC{ID: id, Version: 0x14, logger: logger}
	l.reset()
	return l
}

func (l *LAPIC) reset() {
	l.spuriousVector = 0xFF
	l.softEnabled = false
	l.lvtTimer.Masked = true
	l.lvtThermal.Masked = true
	l.lvtPMC.Masked = true
	l.lvtLINT0.Masked = true
	l.lvtLINT1.Masked = true
	l.lvtError.Masked = true
	l.tpr, l.ppr, l.apr = 0, 0, 0
	for i := range l.isr {
		l.isr[i], l.irr[i], l.tmr[i] = 0, 0, 0
	}
}

func vectorBit(v byte) (word int, bit uint32) {
	return int(v) / 32, 1 << uint(v%32)
}

func highestSetVector(arr [8]uint32) (vector byte, ok bool) {
	for w := 7; w >= 0; w-- {
		if arr[w] == 0 {
			continue
		}
		for b := 31; b >= 0; b-- {
			if arr[w]&(1<<uint(b)) != 0 {
				return byte(w*32 + b), true
			}
		}
	}
	return 0, false
}

// updatePriorities recomputes PPR/APR per the priority-trio rule: PPR =
// max(TPR & 0xF0, ISRV & 0xF0); APR is the max of TPR, IRRV, ISRV high
// nibbles unless TPR dominates.
func (l *LAPIC) updatePriorities() {
	isrv, _ := highestSetVector(l.isr)
	irrv, _ := highestSetVector(l.irr)

	tprClass := l.tpr & 0xF0
	isrvClass := isrv & 0xF0
	irrvClass := irrv & 0xF0

	if tprClass > isrvClass {
		l.ppr = tprClass
	} else {
		l.ppr = isrvClass
	}

	max := tprClass
	if irrvClass > max {
		max = irrvClass
	}
	if isrvClass > max {
		max = isrvClass
	}
	l.apr = max
}

// RequestInterrupt raises vector v on this LAPIC's IRR (as an external
// source, e.g. an IOAPIC redirection or an IPI would).
func (l *LAPIC) RequestInterrupt(v byte, levelTriggered bool) {
	if !l.softEnabled {
		return
	}
	word, bit := vectorBit(v)
	l.irr[word] |= bit
	if levelTriggered {
		l.tmr[word] |= bit
	} else {
		l.tmr[word] &^= bit
	}
	l.updatePriorities()
}

// Tick advances the LAPIC timer by cpuCycles CPU clock ticks.
func (l *LAPIC) Tick(cpuCycles int) {
	if l.timerDirty {
		l.timerDirty = false
		return // suppress a spurious fire during the config write's own tick
	}
	// A masked timer LVT still counts down on real hardware; only the
	// vector delivery is suppressed (in fireTimer), not the countdown.
	if l.timerCurrentCount == 0 {
		return
	}
	divisor := timerDivisors[l.timerDivide&0x7]
	step := cpuCycles / divisor
	if step <= 0 {
		return
	}
	if uint32(step) >= l.timerCurrentCount {
		l.timerCurrentCount = 0
		l.fireTimer()
		if l.timerPeriodic {
			l.timerCurrentCount = l.timerInitialCount
		}
		return
	}
	l.timerCurrentCount -= uint32(step)
}

func (l *LAPIC) fireTimer() {
	if l.lvtTimer.Masked {
		return
	}
	l.RequestInterrupt(l.lvtTimer.Vector, false)
}
