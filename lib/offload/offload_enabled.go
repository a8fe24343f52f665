//go:build offload

package offload

import (
	"fmt"

	"github.com/netfabrik/resdir/lib/resource"
)

const supported = true

// initDevice verifies that the security configuration region is
// provisioned and addressable before the offload path is armed. The
// region is only probed, not held.
func initDevice(dir resource.IDirectory) error {
	res, err := dir.Acquire(SecurityResource)
	if err != nil {
		return fmt.Errorf("offload: locating %s: %w", SecurityResource, err)
	}
	defer dir.Release(res)

	if res.Size() == 0 {
		return fmt.Errorf("offload: %s region has zero size", SecurityResource)
	}
	return nil
}
