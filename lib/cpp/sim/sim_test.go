package sim

import (
	"testing"

	"github.com/netfabrik/resdir/lib/cpp"
)

func TestShortReadFault(t *testing.T) {
	dev := NewDevice(DefaultOptions())
	c := dev.Open()
	defer c.Close()

	id := cpp.ID(7, 0, 0)
	buf := make([]byte, 32)

	n, err := c.Read(id, 256, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("unfaulted read returned (%d, %v)", n, err)
	}

	dev.FailReadAt(7, 260)

	n, err = c.Read(id, 256, buf)
	if err != nil {
		t.Fatalf("faulted read must return short, not fail: %v", err)
	}
	if n >= len(buf) {
		t.Errorf("faulted read returned %d bytes, want short read", n)
	}

	// The fault is positional: reads elsewhere are unaffected.
	n, err = c.Read(id, 1024, buf)
	if err != nil || n != len(buf) {
		t.Errorf("read outside the faulted range returned (%d, %v)", n, err)
	}

	dev.ClearReadFaults()
	n, err = c.Read(id, 256, buf)
	if err != nil || n != len(buf) {
		t.Errorf("read after ClearReadFaults returned (%d, %v)", n, err)
	}
}

func TestAccessCounters(t *testing.T) {
	dev := NewDevice(DefaultOptions())
	c := dev.Open()
	defer c.Close()

	id := cpp.ID(7, 0, 0)
	buf := make([]byte, 8)

	for i := 0; i < 5; i++ {
		if _, err := c.Read(id, uint64(i*8), buf); err != nil {
			t.Fatalf("Read failed: %v", err)
		}
	}
	if _, err := c.Write(id, 0, buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if got := dev.Reads(); got != 5 {
		t.Errorf("Reads() = %d, want 5", got)
	}
	if got := dev.Writes(); got != 1 {
		t.Errorf("Writes() = %d, want 1", got)
	}
}

func TestMutexKeyMismatch(t *testing.T) {
	dev := NewDevice(DefaultOptions())
	c := dev.Open()
	defer c.Close()

	m, err := c.MutexAlloc(7, 512, 0x1111)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer m.Free()

	// The same location cannot be re-keyed.
	if _, err := c.MutexAlloc(7, 512, 0x2222); err == nil {
		t.Errorf("MutexAlloc with a conflicting key should fail")
	}
}

func TestMutexUnaddressable(t *testing.T) {
	dev := NewDevice(DefaultOptions())
	c := dev.Open()
	defer c.Close()

	if _, err := c.MutexAlloc(7, 1<<30, 0x1111); err == nil {
		t.Errorf("MutexAlloc outside device memory should fail")
	}
}

func TestClosedInterface(t *testing.T) {
	dev := NewDevice(DefaultOptions())
	c := dev.Open()

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	id := cpp.ID(7, 0, 0)
	if _, err := c.Read(id, 0, make([]byte, 8)); err == nil {
		t.Errorf("Read on a closed interface should fail")
	}
	if _, err := c.Write(id, 0, make([]byte, 8)); err == nil {
		t.Errorf("Write on a closed interface should fail")
	}
	if _, err := c.MutexAlloc(7, 0, 1); err == nil {
		t.Errorf("MutexAlloc on a closed interface should fail")
	}
}
