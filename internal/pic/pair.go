package pic

import "log/slog"

// Pair is the standard PC cascade: a master 8259A with its IR2 line wired
// to a slave 8259A's INT output. Port 0x20/0x21 address the master,
// 0xA0/0xA1 the slave.
type Pair struct {
	Master *Chip
	Slave  *Chip

	slaveLine int // IR line on the master the slave is cascaded into (2 on a standard PC)
}

// NewPair constructs the master/slave cascade wired the standard PC way
// (slave on master IR2).
func NewPair(logger *slog.Logger) *Pair {
	p := &Pair{slaveLine: 2}
	p.Master = NewChip(logger, int8(p.slaveLine))
	p.Slave = NewChip(logger, -1)
	p.Slave.isSlave = true
	return p
}

// ReadPort dispatches to master (0x20/0x21) or slave (0xA0/0xA1).
func (p *Pair) ReadPort(port uint16) (bool, byte) {
	switch port {
	case 0x20:
		return true, p.Master.ReadPort(true)
	case 0x21:
		return true, p.Master.ReadPort(false)
	case 0xA0:
		return true, p.Slave.ReadPort(true)
	case 0xA1:
		return true, p.Slave.ReadPort(false)
	default:
		return false, 0
	}
}

// WritePort dispatches a write the same way ReadPort dispatches a read,
// and mirrors software lowering of the slave's INTR onto the master's
// cascade line.
func (p *Pair) WritePort(port uint16, value byte) bool {
	switch port {
	case 0x20:
		p.Master.WritePort(true, value)
	case 0x21:
		p.Master.WritePort(false, value)
	case 0xA0:
		p.Slave.WritePort(true, value)
	case 0xA1:
		p.Slave.WritePort(false, value)
	default:
		return false
	}
	p.syncCascadeLine()
	return true
}

// syncCascadeLine mirrors the slave's pending-request state onto the
// master's cascade IR line, the edge that actually drives the master's
// INTR per the cascade semantics.
func (p *Pair) syncCascadeLine() {
	if p.Slave.HasPendingAboveISR() {
		p.Master.Raise(cascadeSourceID, p.slaveLine)
	} else {
		p.Master.Lower(cascadeSourceID, p.slaveLine)
	}
}

// cascadeSourceID is the IRR3 source id the pair itself uses to represent
// "the slave chip" on the master's cascade line; device code should avoid
// this id when calling Chip.Raise/Lower directly on the master.
const cascadeSourceID = 7

// HasINTR reports whether the pair currently wants to assert INTR to the CPU.
func (p *Pair) HasINTR() bool {
	p.syncCascadeLine()
	return p.Master.HasPendingAboveISR()
}

// INTA runs the two-INTA cascade acknowledge sequence and returns the
// vector to deliver. If the highest-priority master IR line is the
// cascade line, a second INTA is issued to the slave.
func (p *Pair) INTA() byte {
	p.syncCascadeLine()

	irq, ok := p.Master.Highest()
	if !ok {
		// Spurious: no pending source. Returns vector (base|7); caller
		// must not treat this as a real accept/finish cycle.
		p.Master.lastIRQ = 7
		return p.Master.VectorBase() | 0x07
	}

	p.Master.isr |= 1 << uint(irq)
	p.Master.irr &^= 1 << uint(irq)
	p.Master.lastIRQ = byte(irq)

	if irq == p.slaveLine {
		slaveIRQ, ok := p.Slave.Highest()
		if !ok {
			p.Slave.lastIRQ = 7
			return p.Slave.VectorBase() | 0x07
		}
		p.Slave.isr |= 1 << uint(slaveIRQ)
		p.Slave.irr &^= 1 << uint(slaveIRQ)
		p.Slave.lastIRQ = byte(slaveIRQ)
		return p.Slave.VectorBase() | byte(slaveIRQ)
	}

	return p.Master.VectorBase() | byte(irq)
}
