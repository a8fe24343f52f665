package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"

	_ "net/http/pprof"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/netfabrik/resdir/lib/cpp"
	"github.com/netfabrik/resdir/lib/cpp/sim"
	"github.com/netfabrik/resdir/lib/resource"
	"github.com/netfabrik/resdir/rpc/common"
	"github.com/netfabrik/resdir/rpc/serializer"
	"github.com/netfabrik/resdir/rpc/transport"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// Request counters, exported on the optional metrics endpoint.
var (
	metricRequests = metrics.NewCounter(`resdir_rpc_requests_total`)
	metricErrors   = metrics.NewCounter(`resdir_rpc_errors_total`)
)

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create device adapter map
	deviceMap := xsync.NewMapOf[uint64, IRPCServerAdapter]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		devices:    deviceMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	devices    *xsync.MapOf[uint64, IRPCServerAdapter]
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(deviceId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		metricRequests.Inc()

		// Get appropriate device adapter
		adapter, ok := s.devices.Load(deviceId)

		// Case device does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "device not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				// Let the adapter handle the request
				respMsg = *adapter.Handle(&msg)
			}
		}

		if respMsg.Err != "" {
			metricErrors.Inc()
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	// CREATE DEVICES

	/*
		Note: A single RPC Server can host any number of devices. Each device
		gets its own simulated memory, its resource table is provisioned from
		the configured resource list, and a directory adapter is registered
		for it under its device ID.
	*/

	for _, devConfig := range s.config.Devices {
		iface, err := createDevice(devConfig)
		if err != nil {
			return fmt.Errorf("failed to create device %d: %w", devConfig.DeviceID, err)
		}

		s.devices.Store(devConfig.DeviceID, NewResourceDirectoryAdapter(iface))
		Logger.Infof("provisioned device %d with %d resources", devConfig.DeviceID, len(devConfig.Resources))
	}

	// Start the metrics and pprof listener if configured
	if s.config.MetricsEndpoint != "" {
		go func() {
			http.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
				metrics.WritePrometheus(w, true)
			})
			Logger.Infof("Starting metrics server on %s", s.config.MetricsEndpoint)
			Logger.Errorf("%v", http.ListenAndServe(s.config.MetricsEndpoint, nil))
		}()
	}

	Logger.Infof("resdir setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the devices and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// createDevice builds one simulated device: a memory segment for the
// resource table, a general-purpose segment, and the provisioned table.
func createDevice(config common.DeviceConfig) (cpp.Interface, error) {
	memMiB := config.MemoryMiB
	if memMiB <= 0 {
		memMiB = 1
	}

	dev := sim.NewDevice(&sim.Options{
		Segments: []sim.Segment{
			{Target: resource.TblTarget, Base: resource.TblBase, Size: resource.TblSize},
			{Target: resource.TblTarget, Base: 0, Size: uint64(memMiB) << 20},
		},
	})

	iface := dev.Open()
	if err := resource.Provision(iface, config.Resources); err != nil {
		iface.Close()
		return nil, err
	}

	return iface, nil
}
