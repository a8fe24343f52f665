//go:build !offload

package offload

import (
	"github.com/netfabrik/resdir/lib/resource"
)

const supported = false

func initDevice(resource.IDirectory) error {
	return nil
}
