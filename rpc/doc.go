// Package rpc provides a framework for remote procedure calls against the
// resource directory. It acts as the communication layer between clients and
// the directory server, enabling resource acquisition across network
// boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable
//     implementations (TCP, Unix sockets).
//
//   - serializer: Message serialization with multiple format options
//     (Binary, JSON, GOB, CBOR) for converting between Message objects and
//     byte arrays.
//
//   - client: RPC client implementation of the resource directory interface,
//     allowing applications to acquire and release resources on remote
//     devices transparently.
//
//   - server: RPC server components that host devices and route incoming
//     requests to per-device directory adapters.
package rpc
