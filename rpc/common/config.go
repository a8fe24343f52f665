package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/netfabrik/resdir/lib/resource"
)

// --------------------------------------------------------------------------
// Shared transport tuning structs
// --------------------------------------------------------------------------

// SocketConf holds socket buffer settings shared by client and server.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP-specific settings shared by client and server.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// DeviceConfig describes one simulated device hosted by the server. The
// device's resource table is provisioned from the listed resource specs
// on startup.
type DeviceConfig struct {
	// DeviceID is the ID clients use to route requests to this device
	DeviceID uint64 `yaml:"id"`
	// MemoryMiB is the size of the device's general memory segment
	MemoryMiB int `yaml:"memory_mib"`
	// Resources are written into the device's resource table on startup
	Resources []resource.Spec `yaml:"resources"`
}

// ServerTransportConfig holds the transport tuning knobs for the server.
type ServerTransportConfig struct {
	SocketConf `yaml:",inline"`
	TCPConf    `yaml:",inline"`

	// MaxWorkersPerConn limits concurrent request workers per connection
	MaxWorkersPerConn int
}

// ServerConfig holds all configuration parameters for the directory server.
type ServerConfig struct {
	// Devices hosted by this server
	Devices []DeviceConfig

	// RPC settings
	Endpoint      string
	TimeoutSecond int64
	Transport     ServerTransportConfig

	// MetricsEndpoint is the optional address for the metrics and pprof
	// listener. Empty disables it.
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Devices
	addSection("Devices")
	for _, dev := range c.Devices {
		addField(
			strconv.FormatUint(dev.DeviceID, 10),
			fmt.Sprintf("%d MiB, %d resources", dev.MemoryMiB, len(dev.Resources)),
		)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig holds the transport settings for the client.
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int

	SocketConf `yaml:",inline"`
	TCPConf    `yaml:",inline"`
}

// ClientConfig holds all configuration parameters for RPC clients.
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
