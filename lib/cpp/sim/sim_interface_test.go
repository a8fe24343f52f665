package sim

import (
	"testing"

	cpptesting "github.com/netfabrik/resdir/lib/cpp/testing"
)

func Test(t *testing.T) {
	dev := NewDevice(DefaultOptions())
	cpptesting.RunInterfaceTests(t, "SimDevice", cpptesting.Harness{
		Open:   dev.Open,
		Target: 7,
		Base:   0,
		Size:   1 << 20,
	})
}
