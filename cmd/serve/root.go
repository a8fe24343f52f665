package serve

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	cmdUtil "github.com/netfabrik/resdir/cmd/util"
	"github.com/netfabrik/resdir/rpc/common"
	"github.com/netfabrik/resdir/rpc/serializer"
	"github.com/netfabrik/resdir/rpc/server"
	"github.com/netfabrik/resdir/rpc/transport"
	"github.com/netfabrik/resdir/rpc/transport/http"
	"github.com/netfabrik/resdir/rpc/transport/tcp"
	"github.com/netfabrik/resdir/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the resdir server",
		Long:    `Start the resdir server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is RESDIR_<flag> (e.g. RESDIR_LOG_LEVEL=debug)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

// deviceFile is the on-disk format of the --config file. It lists the
// simulated devices the server hosts and the resources provisioned into
// each device's table on startup.
type deviceFile struct {
	Devices []common.DeviceConfig `yaml:"devices"`
}

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "config"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Path to a YAML file describing the hosted devices and their provisioned resources. If empty, a single unprovisioned device with ID 1 is served"))

	key = "memory"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Default general memory segment size per device (in MiB, used when the config file does not specify one)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:5000", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:5000, /tmp/resdir.sock, ...)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Optional address for the Prometheus metrics and pprof listener (e.g. localhost:9090). Empty disables it"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "max-workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("Maximum number of concurrent request workers per connection"))

	key = "write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the write buffer for the transport (in KB)"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the read buffer for the transport (in KB)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY for the transport (only for TCPConf)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval for the transport (in seconds, only for TCPConf)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The linger time for the transport (in seconds, only for TCPConf)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse devices
	if configPath := viper.GetString("config"); configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %v", configPath, err)
		}

		var file deviceFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("failed to parse config file %s: %v", configPath, err)
		}
		if len(file.Devices) == 0 {
			return fmt.Errorf("config file %s contains no devices", configPath)
		}
		serveCmdConfig.Devices = file.Devices
	} else {
		// no config file: serve a single empty device
		serveCmdConfig.Devices = []common.DeviceConfig{{DeviceID: 1}}
	}

	// devices without an explicit memory size get the default
	for i := range serveCmdConfig.Devices {
		if serveCmdConfig.Devices[i].MemoryMiB == 0 {
			serveCmdConfig.Devices[i].MemoryMiB = viper.GetInt("memory")
		}
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		MaxWorkersPerConn: viper.GetInt("max-workers-per-conn"),
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		},
	}

	return nil
}

// run starts the resdir server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	case "binary":
		s = serializer.NewBinarySerializer()
	case "cbor":
		s = serializer.NewCBORSerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	case "tcp":
		t = tcp.NewTCPServerTransport(64*1024, serveCmdConfig.Transport.MaxWorkersPerConn)
	case "unix":
		t = unix.NewUnixServerTransport(64*1024, serveCmdConfig.Transport.MaxWorkersPerConn)
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("resdir")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

}
