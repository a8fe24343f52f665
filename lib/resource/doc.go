// Package resource implements the device-resident resource directory and
// its advisory lock manager. It turns a human-readable resource name into
// an exclusively-held handle onto a region of the device address space,
// using nothing but the raw read primitive and the hardware mutex
// primitive of the cpp package - there is no kernel or host-side
// mediation between competing actors.
//
// Directory Layout:
//
//	The directory is a fixed 4096-byte table provisioned by firmware (or
//	by Provision in simulated setups). It is divided into fixed-size
//	entries of 32 bytes: an 8-byte mutex word {owner, key} followed by a
//	24-byte region descriptor {name, cpp addressing, page offset, page
//	size}. Addresses and sizes are stored in units of 256-byte pages.
//	Entry zero is the table's self-descriptor and carries a reserved
//	sentinel key; every other entry's key is the POSIX CRC-32 checksum
//	of its zero-padded 8-byte name. Lookup by name is therefore a
//	checksum match, never a string comparison.
//
// Double-Locking Protocol:
//
//	Acquire takes two locks in strict order. First the device lock, a
//	hardware mutex keyed to the table's own base address, which
//	serializes directory scans across every actor on the bus. While it
//	is held, the table is scanned one entry per atomic read until the
//	derived key matches. On a match a second hardware mutex, keyed to
//	the matched entry's absolute address, is allocated and try-locked;
//	this per-entry lock is the one the returned handle owns. The device
//	lock is released on every exit path - success, contention, I/O
//	failure or a missing entry - and is never held longer than one
//	scan-plus-lock-attempt.
//
// Failure Semantics:
//
//	Every failure during Acquire fully unwinds partial state before
//	returning: allocated mutex descriptors are freed and the device lock
//	is released. Release never fails outward; if the device reports an
//	inconsistency while unlocking, it is logged and the descriptor is
//	freed regardless.
//
// Liveness Hazard:
//
//	Locks are advisory and lease-free. A crashed or hung holder of a
//	per-entry lock permanently wedges that resource for all future
//	Acquire calls. This is an accepted property of the protocol, not a
//	defect; callers that need stronger guarantees must layer them on
//	top.
//
// Usage Example:
//
//	dir := resource.NewDirectory(c)
//
//	res, err := dir.Acquire("fw.cache")
//	if err != nil {
//	    // resource.CodeOf(err) distinguishes NotFound, Contended, ...
//	}
//	defer dir.Release(res)
//
//	// res.CPPID(), res.Address() and res.Size() address the resource's
//	// own memory for subsequent bus reads and writes.
package resource
