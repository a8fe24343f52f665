// Package offload carries the inline packet-security offload hooks.
// The feature is compiled out by default: without the `offload` build
// tag every hook is a successful no-op, mirroring how the device
// operates when the capability is not licensed. Building with
// `-tags offload` enables the real initialization path, which locates
// and validates the security configuration region through the resource
// directory.
package offload
