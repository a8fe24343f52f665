package resource

import (
	"errors"
	"testing"

	"github.com/netfabrik/resdir/lib/cpp"
)

// stubMutex records the lifecycle calls made against it and fails Unlock
// with a configurable error.
type stubMutex struct {
	unlockErr error
	unlocked  bool
	freed     bool
}

func (m *stubMutex) Lock() error    { return nil }
func (m *stubMutex) TryLock() error { return nil }
func (m *stubMutex) Unlock() error {
	m.unlocked = true
	return m.unlockErr
}
func (m *stubMutex) Free() { m.freed = true }

// A device-side inconsistency during unlock is logged, not surfaced: the
// handle is still torn down, the descriptor still freed, and the caller
// sees success.
func TestReleaseToleratesUnlockInconsistency(t *testing.T) {
	mu := &stubMutex{unlockErr: cpp.ErrMutexNotHeld}
	res := &Resource{name: "fw.cache", mu: mu}

	d := &directoryImpl{}
	if err := d.Release(res); err != nil {
		t.Fatalf("Release returned %v, want nil despite the unlock failure", err)
	}

	if !mu.unlocked {
		t.Errorf("Unlock was never attempted")
	}
	if !mu.freed {
		t.Errorf("descriptor was not freed after the failed unlock")
	}

	// The handle is dead: releasing it again is invalid, not a retry.
	if err := d.Release(res); CodeOf(err) != RetCInvalid {
		t.Errorf("second Release returned %v, want Invalid", err)
	}
}

// Foreign unlock errors get the same treatment as protocol sentinels.
func TestReleaseToleratesForeignUnlockError(t *testing.T) {
	mu := &stubMutex{unlockErr: errors.New("bus fault")}
	res := &Resource{name: "fw.cache", mu: mu}

	d := &directoryImpl{}
	if err := d.Release(res); err != nil {
		t.Fatalf("Release returned %v, want nil", err)
	}
	if !mu.freed {
		t.Errorf("descriptor was not freed")
	}
}
