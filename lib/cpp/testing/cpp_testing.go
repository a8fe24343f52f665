package testing

import (
	"bytes"
	"testing"
	"time"

	"github.com/netfabrik/resdir/lib/cpp"
)

// Harness describes one device under test. Open must hand out a new
// interface onto the same device on every call, so the suite can act as
// several independent bus actors. Target/Base/Size name a memory range
// the suite may freely read and write.
type Harness struct {
	Open   func() cpp.Interface
	Target int
	Base   uint64
	Size   uint64
}

// RunInterfaceTests runs the conformance suite for a cpp.Interface
// implementation.
func RunInterfaceTests(t *testing.T, name string, h Harness) {
	t.Run(name, func(t *testing.T) {
		t.Run("ReadWrite", func(t *testing.T) {
			testReadWrite(t, h)
		})
		t.Run("OutOfRange", func(t *testing.T) {
			testOutOfRange(t, h)
		})
		t.Run("MutexTryLock", func(t *testing.T) {
			testMutexTryLock(t, h)
		})
		t.Run("MutexOwnership", func(t *testing.T) {
			testMutexOwnership(t, h)
		})
		t.Run("MutexBlockingLock", func(t *testing.T) {
			testMutexBlockingLock(t, h)
		})
		t.Run("InterfaceIdentity", func(t *testing.T) {
			testInterfaceIdentity(t, h)
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testReadWrite(t *testing.T, h Harness) {
	c := h.Open()
	defer c.Close()

	id := cpp.ID(uint8(h.Target), 0, 0)
	payload := []byte("directory")

	n, err := c.Write(id, h.Base, payload)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("Write returned %d, want %d", n, len(payload))
	}

	// A second actor must observe the write: memory is device-side state.
	c2 := h.Open()
	defer c2.Close()

	buf := make([]byte, len(payload))
	n, err = c2.Read(id, h.Base, buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read returned %d, want %d", n, len(buf))
	}
	if !bytes.Equal(buf, payload) {
		t.Errorf("Read returned %q, want %q", buf, payload)
	}
}

func testOutOfRange(t *testing.T, h Harness) {
	c := h.Open()
	defer c.Close()

	id := cpp.ID(uint8(h.Target), 0, 0)
	buf := make([]byte, 16)

	if _, err := c.Read(id, h.Base+h.Size, buf); err == nil {
		t.Errorf("Read past the end of the segment should fail")
	}
	if _, err := c.Write(id, h.Base+h.Size, buf); err == nil {
		t.Errorf("Write past the end of the segment should fail")
	}
}

func testMutexTryLock(t *testing.T, h Harness) {
	c1 := h.Open()
	c2 := h.Open()
	defer c1.Close()
	defer c2.Close()

	const key = 0xcafe0001

	m1, err := c1.MutexAlloc(h.Target, h.Base, key)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m1.Free()

	m2, err := c2.MutexAlloc(h.Target, h.Base, key)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m2.Free()

	if err := m1.TryLock(); err != nil {
		t.Fatalf("first TryLock failed: %v", err)
	}

	if err := m2.TryLock(); err != cpp.ErrMutexHeld {
		t.Errorf("TryLock against a held mutex returned %v, want ErrMutexHeld", err)
	}

	if err := m1.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	if err := m2.TryLock(); err != nil {
		t.Errorf("TryLock after release failed: %v", err)
	}
	if err := m2.Unlock(); err != nil {
		t.Errorf("Unlock failed: %v", err)
	}
}

func testMutexOwnership(t *testing.T, h Harness) {
	c1 := h.Open()
	c2 := h.Open()
	defer c1.Close()
	defer c2.Close()

	const key = 0xcafe0002

	m1, err := c1.MutexAlloc(h.Target, h.Base+64, key)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m1.Free()

	m2, err := c2.MutexAlloc(h.Target, h.Base+64, key)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m2.Free()

	// Unlocking a mutex you do not hold is a protocol inconsistency.
	if err := m2.Unlock(); err != cpp.ErrMutexNotHeld {
		t.Errorf("Unlock of unheld mutex returned %v, want ErrMutexNotHeld", err)
	}

	if err := m1.TryLock(); err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if err := m2.Unlock(); err != cpp.ErrMutexNotHeld {
		t.Errorf("Unlock by non-owner returned %v, want ErrMutexNotHeld", err)
	}
	if err := m1.Unlock(); err != nil {
		t.Errorf("Unlock by owner failed: %v", err)
	}
}

func testMutexBlockingLock(t *testing.T, h Harness) {
	c1 := h.Open()
	c2 := h.Open()
	defer c1.Close()
	defer c2.Close()

	const key = 0xcafe0003

	m1, err := c1.MutexAlloc(h.Target, h.Base+128, key)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m1.Free()

	m2, err := c2.MutexAlloc(h.Target, h.Base+128, key)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m2.Free()

	if err := m1.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		acquired <- m2.Lock()
	}()

	// The second locker must still be blocked while the first holds on.
	select {
	case err := <-acquired:
		t.Fatalf("Lock returned early with %v while mutex was held", err)
	case <-time.After(20 * time.Millisecond):
	}

	if err := m1.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	select {
	case err := <-acquired:
		if err != nil {
			t.Fatalf("blocked Lock failed after release: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Lock did not acquire after release")
	}

	if err := m2.Unlock(); err != nil {
		t.Errorf("Unlock failed: %v", err)
	}
}

func testInterfaceIdentity(t *testing.T, h Harness) {
	c1 := h.Open()
	c2 := h.Open()
	defer c1.Close()
	defer c2.Close()

	if c1.InterfaceID() == 0 || c2.InterfaceID() == 0 {
		t.Errorf("interface IDs must be nonzero")
	}
	if c1.InterfaceID() == c2.InterfaceID() {
		t.Errorf("distinct interfaces must have distinct IDs")
	}
}
