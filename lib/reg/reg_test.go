package reg

import (
	"errors"
	"testing"

	"github.com/netfabrik/resdir/lib/cpp/sim"
)

func TestRegisterLifecycle(t *testing.T) {
	reset()

	type layerState struct {
		initialized bool
		stopped     bool
	}
	state := &layerState{}

	ops := &Ops{
		Name: "test-layer",
		Init: func(cookie any) error {
			cookie.(*layerState).initialized = true
			return nil
		},
		Stop: func(cookie any) {
			cookie.(*layerState).stopped = true
		},
	}

	// Registration before any device is attached must be refused.
	if err := Register(ops, state); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Register without device returned %v, want ErrNotReady", err)
	}

	dev := sim.NewDevice(nil)
	AttachDevice(dev.Open())

	if err := Register(ops, state); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !state.initialized {
		t.Errorf("Init callback was not invoked")
	}

	// Only one application layer at a time.
	if err := Register(&Ops{Name: "other"}, nil); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second Register returned %v, want ErrAlreadyRegistered", err)
	}

	cookie := Unregister()
	if cookie != any(state) {
		t.Errorf("Unregister returned %v, want the original cookie", cookie)
	}
	if !state.stopped {
		t.Errorf("Stop callback was not invoked")
	}

	// The slot is free again.
	if err := Register(ops, state); err != nil {
		t.Errorf("Register after Unregister failed: %v", err)
	}
	Unregister()
}

func TestRegisterInvalidOps(t *testing.T) {
	reset()

	if err := Register(nil, nil); !errors.Is(err, ErrInvalidOps) {
		t.Errorf("Register(nil) returned %v, want ErrInvalidOps", err)
	}
	if err := Register(&Ops{}, nil); !errors.Is(err, ErrInvalidOps) {
		t.Errorf("Register with empty name returned %v, want ErrInvalidOps", err)
	}
}

func TestRegisterInitFailureRollsBack(t *testing.T) {
	reset()

	dev := sim.NewDevice(nil)
	AttachDevice(dev.Open())

	boom := errors.New("init failed")
	ops := &Ops{
		Name: "failing-layer",
		Init: func(any) error { return boom },
	}

	if err := Register(ops, nil); !errors.Is(err, boom) {
		t.Fatalf("Register returned %v, want init error", err)
	}

	// The failed registration must not occupy the slot.
	if err := Register(&Ops{Name: "second"}, nil); err != nil {
		t.Errorf("Register after rolled-back init failed: %v", err)
	}
	Unregister()
}

func TestUnregisterIdle(t *testing.T) {
	reset()

	if cookie := Unregister(); cookie != nil {
		t.Errorf("Unregister without registration returned %v, want nil", cookie)
	}
}

func TestSetAppID(t *testing.T) {
	p := NewPort("rep0", 0x05000010)

	if err := p.SetAppID(0x00abcdef); err != nil {
		t.Fatalf("SetAppID failed: %v", err)
	}
	if got := p.PortID(); got != 0x05abcdef {
		t.Errorf("PortID() = 0x%08x, want system bits preserved in 0x05abcdef", got)
	}

	// Reserved bits are off limits for the application layer.
	if err := p.SetAppID(0x01000000); err == nil {
		t.Errorf("SetAppID touching reserved bits should fail")
	}
	if got := p.PortID(); got != 0x05abcdef {
		t.Errorf("rejected SetAppID changed the port ID to 0x%08x", got)
	}
}
