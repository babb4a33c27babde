package dma

// Mode bits of an 8237A channel's mode register.
const (
	modeTransferTypeMask = 0x0C // bits 2-3: verify/write/read
	modeTransferVerify   = 0x00
	modeTransferWrite    = 0x04 // read device, write memory
	modeTransferRead     = 0x08 // read memory, write device
	modeTransferIllegal  = 0x0C

	modeAddrDecrement = 0x20 // bit 5: 1 = decrement address
	modeAutoInit      = 0x10 // bit 4
	modeSelectMask    = 0xC0 // bits 6-7: demand/single/block/cascade
	modeDemand        = 0x00
	modeSingle        = 0x40
	modeBlock         = 0x80
	modeCascade       = 0xC0
)

// ByteReadFunc/ByteWriteFunc etc are the four data callbacks a channel user
// registers; WordRead/WordWrite are only exercised by 16-bit (second
// controller) channels.
type (
	ByteReadFunc  func() byte
	ByteWriteFunc func(byte)
	WordReadFunc  func() uint16
	WordWriteFunc func(uint16)

	// EventFunc is the shape of every hardware-line callback (DREQ, DACK, TC, EOP).
	EventFunc func()
)

// Channel holds the architectural and handshake state of one 8237A channel,
// per the data model in the channel-level invariants: the 16-bit address is
// word-addressed on the second controller, and the count register counts
// transfers and underflows below zero to mark terminal count.
type Channel struct {
	index int // 0-3 within the owning Controller

	mode byte

	currentAddress uint16
	baseAddress    uint16
	currentCount   uint16
	baseCount      uint16

	// page is pre-shifted to bit 16, i.e. page = rawPage << 16.
	page uint32

	masked         bool
	dreq           bool
	dack           bool
	request        bool // software request bit, valid only in block mode
	pendingReadReq bool // latched "pending transfer type" flag used by S0 selection

	tc bool // terminal count reached on the last transfer

	ReadByte   ByteReadFunc
	WriteByte  ByteWriteFunc
	ReadWord   WordReadFunc
	WriteWord  WordWriteFunc
	OnDREQ     EventFunc
	OnDACK     EventFunc
	OnTC       EventFunc
	OnEOP      EventFunc
}

func (c *Channel) isCascade() bool {
	return c.mode&modeSelectMask == modeCascade
}

func (c *Channel) hasHandler() bool {
	return c.ReadByte != nil || c.WriteByte != nil || c.ReadWord != nil || c.WriteWord != nil
}

// runnable reports whether the channel is eligible to be granted the bus in
// SI, per the lifecycle rule: unmasked, not cascade, has a handler, and
// either DREQ is asserted or a software request is set (block mode only),
// or DACK is still held (single/block in-progress transfer).
func (c *Channel) runnable() bool {
	if c.masked || c.isCascade() || !c.hasHandler() {
		return false
	}
	if c.dreq || c.dack {
		return true
	}
	selectMode := c.mode & modeSelectMask
	if selectMode == modeBlock && c.request {
		return true
	}
	return false
}

// setMode applies a new mode byte. Writing the mode forces cascade encoding
// (0xC0) to be honored verbatim so the master's IR4-equivalent channel is
// never mistaken for a real transfer channel.
func (c *Channel) setMode(value byte) {
	c.mode = value
}

// setAddress loads both current and base address registers together, as
// the real chip does on an address-register write.
func (c *Channel) setAddress(value uint16) {
	c.currentAddress = value
	c.baseAddress = value
}

// setCount loads both current and base count registers together and arms
// the auto-reload source.
func (c *Channel) setCount(value uint16) {
	c.currentCount = value
	c.baseCount = value
}

// physicalAddress computes the 24-bit bus address for the current transfer,
// applying the word-addressing shift used by the second (16-bit) controller.
func (c *Channel) physicalAddress(wordShift uint) uint32 {
	return c.page | (uint32(c.currentAddress) << wordShift)
}

// step advances the address register according to the mode's direction bit
// and decrements the count, returning true if count underflowed (terminal
// count reached).
func (c *Channel) step() (underflow bool) {
	if c.mode&modeAddrDecrement != 0 {
		c.currentAddress--
	} else {
		c.currentAddress++
	}
	c.currentCount--
	return c.currentCount == 0xFFFF
}

// reload restores current address/count from the base registers, used for
// auto-init channels after terminal count.
func (c *Channel) reload() {
	c.currentAddress = c.baseAddress
	c.currentCount = c.baseCount
}

// SetPage sets the pre-shifted page register (bits 16-23 of the bus address).
func (c *Channel) SetPage(raw byte) {
	c.page = uint32(raw) << 16
}

// Page returns the raw (unshifted) page register.
func (c *Channel) Page() byte {
	return byte(c.page >> 16)
}

// Masked reports whether the channel is currently masked.
func (c *Channel) Masked() bool {
	return c.masked
}

// CurrentCount returns the live current-count register (useful for status
// read-back and tests).
func (c *Channel) CurrentCount() uint16 {
	return c.currentCount
}

// CurrentAddress returns the live current-address register.
func (c *Channel) CurrentAddress() uint16 {
	return c.currentAddress
}
