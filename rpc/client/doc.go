// Package client implements the RPC client for the resource directory.
// It provides an implementation of the resource.IDirectory interface that
// communicates with a remote directory server via RPC, so callers are
// independent of whether the device is local or hosted by a daemon.
//
// The package focuses on:
//   - Transparent RPC access to a remote device's resource directory
//   - Integration with the transport and serialization layers
//   - Error handling that keeps directory return codes across the wire
//
// Key Components:
//
//   - NewRPCResourceDirectory: Factory function that creates a client
//     implementing the IRemoteDirectory interface. The client forwards all
//     operations to the remote server via the configured transport layer.
//
//   - IRemoteDirectory: resource.IDirectory plus a lock-free Info query and
//     connection lifecycle management.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create a serializer
//	serializer := serializer.NewBinarySerializer()
//
//	// Create directory client for device 1
//	dir, _ := client.NewRPCResourceDirectory(1, config, tcp.NewTCPClientTransport(), serializer)
//
//	// Acquire, use and release a resource
//	res, err := dir.Acquire("fw.cache")
//	if err == nil {
//	  // ... use res.CPPID(), res.Address(), res.Size() ...
//	  dir.Release(res)
//	}
//
// Performance Considerations:
//
//   - For applications that acquire and release at a high rate, increasing
//     ConnectionsPerEndpoint can improve throughput by allowing parallel
//     requests.
//
//   - The choice of serializer significantly affects performance. The binary
//     serializer provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	The client implementation is thread-safe and can be used concurrently
//	from multiple goroutines without additional synchronization.
package client
