//go:build !offload

package offload

import "testing"

func TestDisabledByDefault(t *testing.T) {
	if Supported() {
		t.Errorf("Supported() = true without the offload build tag")
	}
	// The disabled hook is a successful no-op, even without a directory.
	if err := InitDevice(nil); err != nil {
		t.Errorf("InitDevice stub returned %v", err)
	}
}
