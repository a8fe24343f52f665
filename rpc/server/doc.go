// Package server implements the RPC server for the resource directory.
// It provides the adapter that handles directory requests against a device,
// along with the core server implementation that hosts devices and routes
// requests by device ID.
//
// The package focuses on:
//   - Server-side RPC request handling for resource directory operations
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Hosting any number of simulated devices, provisioned from configuration
//   - Handle bookkeeping so remote callers can release what they acquired
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server
//     adapters, with the Handle method that processes incoming requests.
//
//   - NewResourceDirectoryAdapter: Factory function creating an adapter for
//     one device. The adapter owns a resource directory on the device's bus
//     interface and the registry that maps wire handles to live resource
//     handles.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Devices: []common.DeviceConfig{
//	    {DeviceID: 1, MemoryMiB: 4, Resources: []resource.Spec{
//	      {Name: "fw.cache", Target: 7, PageOffset: 4, PageSize: 2},
//	    }},
//	  },
//	  Endpoint:      "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent
//	requests across multiple connections. Each request is processed
//	independently. The Serve method is not thread-safe and should be
//	called only once.
package server
