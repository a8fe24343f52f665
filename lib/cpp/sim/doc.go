// Package sim implements an in-memory simulated CPP bus device. It
// exists so the resource directory, the RPC daemon and the tests can run
// without hardware: memory segments stand in for the device address
// space, and hardware mutexes are emulated with compare-and-swap
// semantics that preserve the properties the directory layer depends on
// (atomicity, device-side ownership, advisory locking between distinct
// interfaces).
//
// Device vs. Interface:
//
//	A Device models the device itself: the memory segments and the mutex
//	table are shared, device-side state. Open hands out independent
//	cpp.Interface handles, each with its own interface ID, so a single
//	test or daemon can play several concurrent bus actors against one
//	device - exactly the situation the double-locking protocol exists
//	for.
//
// Fault Injection:
//
//	FailReadAt arms a sticky short-read fault at a given address, which
//	is how scanner abort behavior is exercised. Counters track the
//	number of reads and writes so tests can assert exact bus costs.
//
// The emulation is deliberately simple: reads and writes are atomic per
// call (guarded by a per-segment lock), blocking mutex acquisition spins
// with a small backoff, and there is no timing model.
package sim
