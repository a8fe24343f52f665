package resource_test

import (
	"sync"
	"testing"

	"github.com/netfabrik/resdir/lib/cpp"
	"github.com/netfabrik/resdir/lib/cpp/sim"
	"github.com/netfabrik/resdir/lib/resource"
)

// newTestDevice builds a sim device exposing the directory table plus a
// general-purpose memory range, and provisions it with the given specs.
func newTestDevice(t *testing.T, specs []resource.Spec) *sim.Device {
	t.Helper()

	dev := sim.NewDevice(&sim.Options{
		Segments: []sim.Segment{
			{Target: resource.TblTarget, Base: resource.TblBase, Size: resource.TblSize},
			{Target: resource.TblTarget, Base: 0, Size: 1 << 20},
		},
	})

	c := dev.Open()
	defer c.Close()

	if err := resource.Provision(c, specs); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	return dev
}

// fullTable returns specs for every usable slot except the
// self-descriptor, none of which matches the probe names used below.
func fullTable() []resource.Spec {
	specs := make([]resource.Spec, 0, resource.TblEntries-1)
	for i := 0; i < resource.TblEntries-1; i++ {
		specs = append(specs, resource.Spec{
			Name:       "res." + string([]byte{'a' + byte(i/26), 'a' + byte(i%26)}),
			Target:     7,
			PageOffset: uint32(16 + i),
			PageSize:   1,
		})
	}
	return specs
}

func TestAcquireKnownResource(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, Action: 0, Token: 0, PageOffset: 4, PageSize: 2},
	})
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)

	res, err := dir.Acquire("fw.cache")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer dir.Release(res)

	if got := res.Name(); got != "fw.cache" {
		t.Errorf("Name() = %q", got)
	}
	if got := res.Address(); got != 1024 {
		t.Errorf("Address() = %d, want 1024 (page offset 4 << 8)", got)
	}
	if got := res.Size(); got != 512 {
		t.Errorf("Size() = %d, want 512 (2 pages << 8)", got)
	}
	if got := res.CPPID(); got != cpp.ID(7, 0, 0) {
		t.Errorf("CPPID() = 0x%08x, want 0x%08x", got, cpp.ID(7, 0, 0))
	}
}

func TestAccessorsIdempotent(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, Action: 2, Token: 1, PageOffset: 4, PageSize: 2},
	})
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)
	res, err := dir.Acquire("fw.cache")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer dir.Release(res)

	name, id, addr, size := res.Name(), res.CPPID(), res.Address(), res.Size()
	for i := 0; i < 10; i++ {
		if res.Name() != name || res.CPPID() != id || res.Address() != addr || res.Size() != size {
			t.Fatalf("accessor values changed on repeated calls")
		}
	}
}

func TestAcquireNotFoundScansFullTable(t *testing.T) {
	dev := newTestDevice(t, fullTable())
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)

	before := dev.Reads()
	_, err := dir.Acquire("missing_")
	if resource.CodeOf(err) != resource.RetCNotFound {
		t.Fatalf("Acquire(missing_) returned %v, want NotFound", err)
	}

	// Exhausting the directory costs exactly one read per slot.
	if got := dev.Reads() - before; got != resource.TblEntries {
		t.Errorf("scan issued %d reads, want %d", got, resource.TblEntries)
	}
}

func TestShortReadAbortsScan(t *testing.T) {
	const faultSlot = 50

	dev := newTestDevice(t, fullTable())
	dev.FailReadAt(resource.TblTarget, resource.TblBase+faultSlot*32)

	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)

	before := dev.Reads()
	_, err := dir.Acquire("missing_")
	if resource.CodeOf(err) != resource.RetCIOFailure {
		t.Fatalf("Acquire over a faulty bus returned %v, want IOFailure", err)
	}

	// Slots 0..faultSlot were read, nothing past the fault.
	if got := dev.Reads() - before; got != faultSlot+1 {
		t.Errorf("aborted scan issued %d reads, want %d", got, faultSlot+1)
	}
}

func TestMutualExclusion(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, PageOffset: 4, PageSize: 2},
	})

	c1 := dev.Open()
	c2 := dev.Open()
	defer c1.Close()
	defer c2.Close()

	dir1 := resource.NewDirectory(c1)
	dir2 := resource.NewDirectory(c2)

	res, err := dir1.Acquire("fw.cache")
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	if _, err := dir2.Acquire("fw.cache"); resource.CodeOf(err) != resource.RetCContended {
		t.Fatalf("concurrent Acquire returned %v, want Contended", err)
	}

	if err := dir1.Release(res); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	res2, err := dir2.Acquire("fw.cache")
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	dir2.Release(res2)
}

func TestContentionReleasesDeviceLock(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, PageOffset: 4, PageSize: 2},
		{Name: "fw.stats", Target: 7, PageOffset: 8, PageSize: 1},
	})

	c1 := dev.Open()
	c2 := dev.Open()
	defer c1.Close()
	defer c2.Close()

	dir1 := resource.NewDirectory(c1)
	dir2 := resource.NewDirectory(c2)

	res, err := dir1.Acquire("fw.cache")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer dir1.Release(res)

	if _, err := dir2.Acquire("fw.cache"); resource.CodeOf(err) != resource.RetCContended {
		t.Fatalf("want Contended, got %v", err)
	}

	// The failed acquisition must have released the device lock: a fresh
	// scan by the other actor succeeds, and so does taking the device
	// mutex directly.
	res2, err := dir2.Acquire("fw.stats")
	if err != nil {
		t.Fatalf("Acquire after contention failed (device lock leaked?): %v", err)
	}
	dir2.Release(res2)

	mu, err := c2.MutexAlloc(resource.TblTarget, resource.TblBase, resource.TblKey)
	if err != nil {
		t.Fatalf("MutexAlloc failed: %v", err)
	}
	defer mu.Free()
	if err := mu.TryLock(); err != nil {
		t.Fatalf("device mutex still held after failed acquisition: %v", err)
	}
	mu.Unlock()
}

func TestResourceParallelism(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, PageOffset: 4, PageSize: 2},
		{Name: "fw.stats", Target: 7, PageOffset: 8, PageSize: 1},
	})

	// Two actors may hold two different resources at the same time; only
	// the directory scan itself is serialized.
	var wg sync.WaitGroup
	for _, name := range []string{"fw.cache", "fw.stats"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			c := dev.Open()
			defer c.Close()
			dir := resource.NewDirectory(c)

			res, err := dir.Acquire(name)
			if err != nil {
				t.Errorf("Acquire(%q) failed: %v", name, err)
				return
			}
			dir.Release(res)
		}(name)
	}
	wg.Wait()
}

func TestReleaseInvalidHandle(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, PageOffset: 4, PageSize: 2},
	})
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)

	if err := dir.Release(nil); resource.CodeOf(err) != resource.RetCInvalid {
		t.Errorf("Release(nil) returned %v, want Invalid", err)
	}

	res, err := dir.Acquire("fw.cache")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := dir.Release(res); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := dir.Release(res); resource.CodeOf(err) != resource.RetCInvalid {
		t.Errorf("double Release returned %v, want Invalid", err)
	}
}

func TestAcquireEmptyName(t *testing.T) {
	dev := newTestDevice(t, nil)
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)
	if _, err := dir.Acquire(""); resource.CodeOf(err) != resource.RetCInvalid {
		t.Errorf("Acquire(\"\") returned %v, want Invalid", err)
	}
}

func TestAcquireSelfDescriptor(t *testing.T) {
	dev := newTestDevice(t, nil)
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)

	// The self-descriptor's entry mutex is the device lock itself, which
	// the caller already holds during the scan. The acquisition must
	// observe contention and unwind cleanly rather than deadlock.
	if _, err := dir.Acquire(resource.TblName); resource.CodeOf(err) != resource.RetCContended {
		t.Errorf("Acquire(%q) returned %v, want Contended", resource.TblName, err)
	}

	// And the device lock must have been released on the way out.
	if _, err := dir.Acquire(resource.TblName); resource.CodeOf(err) != resource.RetCContended {
		t.Errorf("second Acquire(%q) returned %v, want Contended", resource.TblName, err)
	}
}

func TestNameTruncation(t *testing.T) {
	dev := newTestDevice(t, []resource.Spec{
		{Name: "fw.cache", Target: 7, PageOffset: 4, PageSize: 2},
	})
	c := dev.Open()
	defer c.Close()

	dir := resource.NewDirectory(c)

	// Lookup keys are derived from the first 8 bytes, so an overlong
	// name that shares them finds the same entry.
	res, err := dir.Acquire("fw.cachexxx")
	if err != nil {
		t.Fatalf("Acquire with overlong name failed: %v", err)
	}
	defer dir.Release(res)

	if got := res.Name(); got != "fw.cache" {
		t.Errorf("Name() = %q, want the truncated %q", got, "fw.cache")
	}
}

func TestProvisionValidation(t *testing.T) {
	dev := sim.NewDevice(&sim.Options{
		Segments: []sim.Segment{
			{Target: resource.TblTarget, Base: resource.TblBase, Size: resource.TblSize},
		},
	})
	c := dev.Open()
	defer c.Close()

	cases := []struct {
		name  string
		specs []resource.Spec
	}{
		{"EmptyName", []resource.Spec{{Name: ""}}},
		{"OverlongName", []resource.Spec{{Name: "waytoolongname"}}},
		{"ReservedName", []resource.Spec{{Name: resource.TblName}}},
		{"TooMany", make([]resource.Spec, resource.TblEntries)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.name == "TooMany" {
				for i := range tc.specs {
					tc.specs[i].Name = "r"
				}
			}
			if err := resource.Provision(c, tc.specs); resource.CodeOf(err) != resource.RetCInvalid {
				t.Errorf("Provision returned %v, want Invalid", err)
			}
		})
	}
}
