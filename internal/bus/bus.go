// Package bus implements the ranged port-I/O registry shared by every
// peripheral in the core. It is built once at construction time and never
// mutated afterward, per the "Callback registration" design note: each
// device is modeled as a small capability set rather than a global
// function-pointer table.
package bus

import "sort"

// PortDevice is the capability every port-mapped peripheral exposes.
// ReadPort/WritePort follow the "(handled, value)" contract. The devices
// in this module return handled=false for a port they do not decode, even
// one inside their registered range (a write-only register, an unused
// offset); the registry then tries the next device, and reports
// handled=false when none claims the port.
type PortDevice interface {
	ReadPort(port uint16) (handled bool, value byte)
	WritePort(port uint16, value byte) (handled bool)
}

type entry struct {
	lo, hi uint16
	dev    PortDevice
}

// Registry is a ranged dispatcher over 16-bit I/O port space.
type Registry struct {
	entries []entry
}

// NewRegistry creates an empty port registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds dev as the handler for the inclusive port range [lo, hi].
// Ranges may overlap across devices (e.g. the Sound Blaster DSP and its
// Adlib alias); devices are tried in ascending order of their range's low
// port, ties in registration order, and the first that returns
// handled=true wins.
func (r *Registry) Register(lo, hi uint16, dev PortDevice) {
	r.entries = append(r.entries, entry{lo: lo, hi: hi, dev: dev})
	// Stable so two devices registered over the same range (a combo card
	// sharing one base) keep dispatch priority in registration order.
	sort.SliceStable(r.entries, func(i, j int) bool { return r.entries[i].lo < r.entries[j].lo })
}

// Read dispatches a port read to every registered device whose range
// contains port, in ascending order of range start (ties in registration
// order), stopping at the first handled
// response. Returns handled=false if no device claims the port.
func (r *Registry) Read(port uint16) (handled bool, value byte) {
	for _, e := range r.entries {
		if port < e.lo || port > e.hi {
			continue
		}
		if h, v := e.dev.ReadPort(port); h {
			return true, v
		}
	}
	return false, 0
}

// Write dispatches a port write the same way Read dispatches a read.
func (r *Registry) Write(port uint16, value byte) (handled bool) {
	for _, e := range r.entries {
		if port < e.lo || port > e.hi {
			continue
		}
		if e.dev.WritePort(port, value) {
			return true
		}
	}
	return false
}
