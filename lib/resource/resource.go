package resource

import (
	"errors"
	"fmt"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/netfabrik/resdir/lib/cpp"
)

var Logger = logger.GetLogger("resource")

// --------------------------------------------------------------------------
// Resource Handle
// --------------------------------------------------------------------------

// Resource is a handle onto an exclusively locked region of device
// memory. It owns the per-entry hardware mutex taken by Acquire; no
// other code path may unlock it while the handle is live. Holders must
// pass the handle back to Release when done - the lock has no lease and
// leaks permanently otherwise.
type Resource struct {
	name  string
	cppID uint32
	addr  uint64
	size  uint64
	mu    cpp.Mutex
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (r *Resource) CPPID() uint32 {
	return r.cppID
}

func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) Address() uint64 {
	return r.addr
}

func (r *Resource) Size() uint64 {
	return r.size
}

// --------------------------------------------------------------------------
// Directory
// --------------------------------------------------------------------------

// NewDirectory creates a directory bound to one bus interface. The
// directory keeps no state of its own: every Acquire re-scans the
// on-device table, so it is safe to create any number of directories on
// the same interface, or one per operation.
func NewDirectory(c cpp.Interface) IDirectory {
	return &directoryImpl{cpp: c}
}

type directoryImpl struct {
	cpp cpp.Interface
}

// Acquire implements the two-level acquisition protocol: device lock,
// scan, per-entry lock, device unlock. See the package documentation for
// the full ordering and unwinding rules.
func (d *directoryImpl) Acquire(name string) (IResource, error) {
	if name == "" {
		return nil, NewError(RetCInvalid, "empty resource name")
	}

	key := DeriveKey(name)

	dev, err := d.lockDevice()
	if err != nil {
		return nil, err
	}
	// Released on every exit path below, and never held longer than the
	// scan plus the per-entry lock attempt.
	defer dev.release()

	e, addr, err := d.find(key)
	if err != nil {
		return nil, err
	}

	mu, err := d.cpp.MutexAlloc(TblTarget, addr, key)
	if err != nil {
		return nil, NewError(RetCExhausted, fmt.Sprintf("allocating entry mutex for %q: %v", name, err))
	}

	if err := mu.TryLock(); err != nil {
		mu.Free()
		if errors.Is(err, cpp.ErrMutexHeld) {
			return nil, NewError(RetCContended, fmt.Sprintf("resource %q is locked by another interface", name))
		}
		return nil, NewError(RetCExhausted, fmt.Sprintf("locking entry mutex for %q: %v", name, err))
	}

	if len(name) > EntryNameSz {
		name = name[:EntryNameSz]
	}

	return &Resource{
		name:  name,
		cppID: cpp.ID(e.cppTarget, e.cppAction, e.cppToken),
		addr:  uint64(e.pageOffset) << pageShift,
		size:  uint64(e.pageSize) << pageShift,
		mu:    mu,
	}, nil
}

// Release implements IDirectory. It never fails for a handle produced by
// this package: an unlock inconsistency is logged and the descriptor is
// freed regardless, since leaking it while the device side is in an
// unknown state would be worse.
func (d *directoryImpl) Release(res IResource) error {
	r, ok := res.(*Resource)
	if !ok || r == nil {
		return NewError(RetCInvalid, "handle was not produced by this directory")
	}
	if r.mu == nil {
		return NewError(RetCInvalid, fmt.Sprintf("resource %q already released", r.name))
	}

	if err := r.mu.Unlock(); err != nil {
		Logger.Errorf("failed to unlock mutex of resource %q: %v", r.name, err)
	}
	r.mu.Free()
	r.mu = nil
	return nil
}

// --------------------------------------------------------------------------
// Device Lock
// --------------------------------------------------------------------------

// deviceLock is a scoped guard over the directory-wide hardware mutex.
// It lives for one scan operation and totally orders scans across all
// actors sharing the bus.
type deviceLock struct {
	mu cpp.Mutex
}

// lockDevice allocates and locks the device-wide mutex keyed at the
// table's own base address. Any failure is surfaced as exhaustion.
func (d *directoryImpl) lockDevice() (*deviceLock, error) {
	mu, err := d.cpp.MutexAlloc(TblTarget, TblBase, TblKey)
	if err != nil {
		return nil, NewError(RetCExhausted, fmt.Sprintf("allocating device mutex: %v", err))
	}
	if err := mu.Lock(); err != nil {
		mu.Free()
		return nil, NewError(RetCExhausted, fmt.Sprintf("locking device mutex: %v", err))
	}
	return &deviceLock{mu: mu}, nil
}

// release unlocks and frees the device mutex. It is idempotent so the
// guard can be deferred unconditionally.
func (l *deviceLock) release() {
	if l.mu == nil {
		return
	}
	if err := l.mu.Unlock(); err != nil {
		Logger.Errorf("failed to unlock device mutex: %v", err)
	}
	l.mu.Free()
	l.mu = nil
}

// --------------------------------------------------------------------------
// Directory Scanner
// --------------------------------------------------------------------------

// find scans directory slots 0..TblEntries-1 in index order for the
// entry whose mutex-word key matches. Each slot costs one atomic read of
// the full entry. A short read aborts the whole scan: a bus that
// delivers partial entries cannot be trusted for the remaining slots.
func (d *directoryImpl) find(key uint32) (entry, uint64, error) {
	id := cpp.ID(TblTarget, actionAtomicRead, 0)
	buf := make([]byte, entrySize)

	for i := 0; i < TblEntries; i++ {
		addr := TblBase + uint64(i)*entrySize

		n, err := d.cpp.Read(id, addr, buf)
		if err != nil {
			return entry{}, 0, NewError(RetCIOFailure, fmt.Sprintf("reading directory slot %d: %v", i, err))
		}
		if n != entrySize {
			return entry{}, 0, NewError(RetCIOFailure, fmt.Sprintf("short read at directory slot %d: %d of %d bytes", i, n, entrySize))
		}

		e, err := decodeEntry(buf)
		if err != nil {
			return entry{}, 0, NewError(RetCIOFailure, fmt.Sprintf("decoding directory slot %d: %v", i, err))
		}

		if e.key != key {
			continue
		}

		// First matching key wins; scan order is table order.
		return e, addr, nil
	}

	return entry{}, 0, NewError(RetCNotFound, fmt.Sprintf("no directory entry with key 0x%08x", key))
}
