// Package cpp defines the contract for the Command-Push-Pull (CPP) bus
// access primitive: byte-addressable reads and writes against a remote,
// memory-mapped device address space, plus a hardware-backed mutex
// primitive for advisory locking between independent bus actors.
//
// Addressing Model:
//
//	Every bus operation is parameterized by a packed 32-bit CPP ID that
//	combines a target subsystem ID, an action (e.g. atomic read) and a
//	token (sub-selector). The ID/IDTarget/IDAction/IDToken helpers pack
//	and unpack this triple. The address parameter is a byte offset into
//	the target's address space.
//
// Hardware Mutexes:
//
//	MutexAlloc builds a mutex descriptor keyed by a {target, address, key}
//	triple. The mutex itself lives on the device, not in host memory:
//	locking and unlocking are atomic bus operations, and the same
//	{target, address, key} triple names the same mutex for every actor
//	sharing the bus. This is the only synchronization primitive the
//	resource directory layer relies on - there is no host-side locking.
//
//	Locks are advisory. They bind only well-behaved actors that go
//	through the mutex protocol; nothing prevents a rogue actor from
//	writing to a locked region directly. A crashed holder leaks its lock
//	permanently, since there is no lease or revocation mechanism.
//
// Implementations:
//
//	The package only defines interfaces. The sim subpackage provides an
//	in-memory implementation for tests and local development; production
//	implementations wrap an actual device transport (PCIe BAR mappings
//	or similar) and are out of scope for this repository.
package cpp
