package reg

import (
	"fmt"
	"sync"
)

// --------------------------------------------------------------------------
// Representor Port Identifiers
// --------------------------------------------------------------------------

// The 32-bit port ID is split between the system (which encodes device
// and port bookkeeping in the reserved range) and the registered
// application layer (which may use the remainder freely).
const (
	// PortIDReservedMask covers the system-managed bits of a port ID.
	PortIDReservedMask uint32 = 0xff000000
	// PortIDAppMask covers the bits an application layer may assign.
	PortIDAppMask uint32 = ^PortIDReservedMask
)

// Port is a network-interface representor carrying a composite port ID.
type Port struct {
	name string

	mu sync.Mutex
	id uint32
}

// NewPort creates a representor with the given name and initial
// (system-assigned) port ID.
func NewPort(name string, id uint32) *Port {
	return &Port{name: name, id: id}
}

// Name returns the representor's interface name.
func (p *Port) Name() string {
	return p.name
}

// PortID returns the current composite port ID.
func (p *Port) PortID() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// SetAppID installs the application-layer part of the port ID. IDs
// touching the system-reserved bit range are rejected; otherwise the
// caller bits are merged with the preserved system bits.
func (p *Port) SetAppID(id uint32) error {
	if id&PortIDReservedMask != 0 {
		return fmt.Errorf("reg: port ID 0x%08x touches reserved bits 0x%08x", id, PortIDReservedMask)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	old := p.id
	p.id = (id & PortIDAppMask) | (old & PortIDReservedMask)
	Logger.Infof("%s: modifying port ID: 0x%08x -> 0x%08x", p.name, old, p.id)
	return nil
}
