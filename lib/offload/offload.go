package offload

import (
	"github.com/netfabrik/resdir/lib/resource"
)

// SecurityResource is the directory name of the security configuration
// region used when offload is enabled.
const SecurityResource = "sec.cfg"

// Supported reports whether the binary was built with offload support.
func Supported() bool {
	return supported
}

// InitDevice prepares packet-security offload for one device. It is
// called during device bring-up; without offload support it succeeds
// without touching the device.
func InitDevice(dir resource.IDirectory) error {
	return initDevice(dir)
}
