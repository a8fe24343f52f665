// Package common provides core data structures and utilities shared across
// the resource directory RPC system. It defines fundamental types,
// configuration structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for inter-component communication
//   - Configuration structures for client and server components
//   - Custom logging implementation built on the dragonboat logger facade
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication between
//     components, with a flexible structure that adapts to different
//     operation types. Includes factory methods for creating various
//     request and response messages.
//
//   - MessageType: Enumeration defining all supported operation types in
//     the system, categorized into resource operations and control messages.
//
//   - ServerConfig: Configuration for the directory server, including the
//     hosted devices, network settings, and logging options.
//
//   - ClientConfig: Configuration for client components, controlling
//     connection parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation that plugs into the dragonboat
//     logger facade while providing consistent formatting across the
//     application.
package common
