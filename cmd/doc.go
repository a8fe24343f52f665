// Package cmd implements the command-line interface for the resdir resource
// directory. It provides a hierarchical command structure with operations
// for running the directory server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - res: Commands for resource operations (acquire, info, perf)
//   - serve: Commands for starting and configuring the resdir server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See resdir -help for a list of all commands.
package cmd
