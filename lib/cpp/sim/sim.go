package sim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/netfabrik/resdir/lib/cpp"
)

var Logger = logger.GetLogger("cpp/sim")

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Segment describes one addressable range of simulated device memory.
type Segment struct {
	Target int    // CPP target the range belongs to
	Base   uint64 // first byte address
	Size   uint64 // length in bytes
}

// Options configures a simulated device.
type Options struct {
	// Segments lists the memory ranges the device exposes. Accesses
	// outside all segments fail like they would on a real bus.
	Segments []Segment
}

// DefaultOptions returns a device with 1 MiB of general-purpose memory
// on target 7. Callers that need a resource directory add the table
// segment themselves (see resource.TblTarget/TblBase/TblSize).
func DefaultOptions() *Options {
	return &Options{
		Segments: []Segment{
			{Target: 7, Base: 0, Size: 1 << 20},
		},
	}
}

// --------------------------------------------------------------------------
// Device
// --------------------------------------------------------------------------

// mutexAddr names one hardware mutex location on the device.
type mutexAddr struct {
	target int
	addr   uint64
}

// Device is the shared, device-side state: memory segments, the hardware
// mutex table and access counters. It is safe for concurrent use by any
// number of interfaces obtained via Open.
type Device struct {
	segments []*segment
	mutexes  *xsync.MapOf[mutexAddr, *hwMutex]
	faults   *xsync.MapOf[mutexAddr, struct{}]

	ifaceSeq atomic.Uint32
	reads    atomic.Uint64
	writes   atomic.Uint64
}

// segment is one memory range plus the lock that makes individual
// accesses atomic.
type segment struct {
	target int
	base   uint64
	mu     sync.RWMutex
	data   []byte
}

// NewDevice creates a simulated device with the given options (optional).
func NewDevice(opts *Options) *Device {
	if opts == nil {
		opts = DefaultOptions()
	}

	segments := make([]*segment, 0, len(opts.Segments))
	for _, s := range opts.Segments {
		segments = append(segments, &segment{
			target: s.Target,
			base:   s.Base,
			data:   make([]byte, s.Size),
		})
	}

	return &Device{
		segments: segments,
		mutexes:  xsync.NewMapOf[mutexAddr, *hwMutex](),
		faults:   xsync.NewMapOf[mutexAddr, struct{}](),
	}
}

// Open hands out a new bus interface onto the device. Every interface
// has a distinct, nonzero interface ID and counts as an independent
// actor for mutex ownership.
func (d *Device) Open() cpp.Interface {
	return &busInterface{
		dev: d,
		id:  d.ifaceSeq.Add(1),
	}
}

// FailReadAt arms a sticky fault: every subsequent read whose range
// covers the given address returns short. Used to exercise scan-abort
// paths.
func (d *Device) FailReadAt(target int, addr uint64) {
	d.faults.Store(mutexAddr{target: target, addr: addr}, struct{}{})
}

// ClearReadFaults disarms all read faults.
func (d *Device) ClearReadFaults() {
	d.faults.Clear()
}

// Reads returns the number of read operations issued against the device.
func (d *Device) Reads() uint64 {
	return d.reads.Load()
}

// Writes returns the number of write operations issued against the device.
func (d *Device) Writes() uint64 {
	return d.writes.Load()
}

// findSegment locates the segment containing [addr, addr+size) on the
// given target. Ranges never span segments.
func (d *Device) findSegment(target int, addr, size uint64) (*segment, error) {
	for _, s := range d.segments {
		if s.target != target {
			continue
		}
		if addr >= s.base && addr+size <= s.base+uint64(len(s.data)) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("sim: no memory at target %d addr 0x%x size %d", target, addr, size)
}

// shortReadLen returns the (truncated) length of a read over [addr,
// addr+size) if a fault is armed inside the range, or size if not.
func (d *Device) shortReadLen(target int, addr, size uint64) uint64 {
	short := size
	d.faults.Range(func(k mutexAddr, _ struct{}) bool {
		if k.target == target && k.addr >= addr && k.addr < addr+size {
			short = size / 2
			return false
		}
		return true
	})
	return short
}

// --------------------------------------------------------------------------
// Bus Interface
// --------------------------------------------------------------------------

// busInterface implements cpp.Interface. It carries no state beyond its
// identity; all memory and locks live on the Device.
type busInterface struct {
	dev    *Device
	id     uint32
	closed atomic.Bool
}

func (b *busInterface) Read(id uint32, addr uint64, p []byte) (int, error) {
	if b.closed.Load() {
		return 0, fmt.Errorf("sim: interface %d is closed", b.id)
	}

	b.dev.reads.Add(1)

	target := int(cpp.IDTarget(id))
	size := uint64(len(p))

	s, err := b.dev.findSegment(target, addr, size)
	if err != nil {
		return 0, err
	}

	n := b.dev.shortReadLen(target, addr, size)

	s.mu.RLock()
	copy(p[:n], s.data[addr-s.base:])
	s.mu.RUnlock()

	return int(n), nil
}

func (b *busInterface) Write(id uint32, addr uint64, p []byte) (int, error) {
	if b.closed.Load() {
		return 0, fmt.Errorf("sim: interface %d is closed", b.id)
	}

	b.dev.writes.Add(1)

	target := int(cpp.IDTarget(id))
	size := uint64(len(p))

	s, err := b.dev.findSegment(target, addr, size)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	copy(s.data[addr-s.base:], p)
	s.mu.Unlock()

	return len(p), nil
}

func (b *busInterface) MutexAlloc(target int, addr uint64, key uint32) (cpp.Mutex, error) {
	if b.closed.Load() {
		return nil, fmt.Errorf("sim: interface %d is closed", b.id)
	}

	// The mutex word must be addressable, like on real hardware.
	if _, err := b.dev.findSegment(target, addr, 8); err != nil {
		return nil, err
	}

	hw, _ := b.dev.mutexes.LoadOrCompute(mutexAddr{target: target, addr: addr}, func() *hwMutex {
		return &hwMutex{key: key}
	})

	if hw.keyOf() != key {
		return nil, fmt.Errorf("sim: mutex at target %d addr 0x%x exists with key 0x%08x, requested 0x%08x",
			target, addr, hw.keyOf(), key)
	}

	return &mutexHandle{hw: hw, owner: b.id}, nil
}

func (b *busInterface) InterfaceID() uint32 {
	return b.id
}

func (b *busInterface) Close() error {
	b.closed.Store(true)
	return nil
}
