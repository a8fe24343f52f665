package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/netfabrik/resdir/lib/cpp"
)

// lockSpinInterval is the backoff between acquisition attempts of a
// blocking Lock.
const lockSpinInterval = 50 * time.Microsecond

// --------------------------------------------------------------------------
// Device-Side Mutex State
// --------------------------------------------------------------------------

// hwMutex is the device-side state of one hardware mutex: the key it was
// created with and the interface ID of the current owner (zero when
// unlocked). It is shared by every handle allocated at the same address.
type hwMutex struct {
	mu    sync.Mutex
	key   uint32
	owner uint32
}

func (h *hwMutex) keyOf() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.key
}

// tryLock attempts an atomic owner CAS on behalf of iface.
func (h *hwMutex) tryLock(iface uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owner != 0 {
		return cpp.ErrMutexHeld
	}
	h.owner = iface
	return nil
}

// unlock releases the mutex if iface owns it.
func (h *hwMutex) unlock(iface uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.owner != iface {
		return cpp.ErrMutexNotHeld
	}
	h.owner = 0
	return nil
}

// --------------------------------------------------------------------------
// Host-Side Mutex Handle
// --------------------------------------------------------------------------

// mutexHandle implements cpp.Mutex. It is the host-side descriptor bound
// to the interface that allocated it.
type mutexHandle struct {
	hw    *hwMutex
	owner uint32
	freed bool
}

func (m *mutexHandle) Lock() error {
	for {
		err := m.TryLock()
		if err == nil {
			return nil
		}
		if err != cpp.ErrMutexHeld {
			return err
		}
		time.Sleep(lockSpinInterval)
	}
}

func (m *mutexHandle) TryLock() error {
	if m.freed {
		return fmt.Errorf("sim: use of freed mutex descriptor")
	}
	return m.hw.tryLock(m.owner)
}

func (m *mutexHandle) Unlock() error {
	if m.freed {
		return fmt.Errorf("sim: use of freed mutex descriptor")
	}
	return m.hw.unlock(m.owner)
}

func (m *mutexHandle) Free() {
	m.freed = true
}
