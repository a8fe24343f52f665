package cpp

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Sentinel Errors
// --------------------------------------------------------------------------

var (
	// ErrMutexHeld is returned by Mutex.TryLock when another bus actor
	// currently holds the mutex.
	ErrMutexHeld = errors.New("cpp: mutex held by another interface")

	// ErrMutexNotHeld is returned by Mutex.Unlock when the calling
	// interface does not hold the mutex.
	ErrMutexNotHeld = errors.New("cpp: mutex not held by this interface")
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Interface is the handle to one device on the CPP bus. All methods are
// safe for concurrent use; atomicity of individual reads and writes is
// guaranteed by the bus protocol, not by host-side locking.
type Interface interface {
	// Read reads len(p) bytes from the target address space selected by
	// the packed CPP ID, starting at the byte offset addr. It returns the
	// number of bytes actually read. A return of n < len(p) with a nil
	// error is possible and indicates an unreliable bus; callers must
	// treat it as an I/O failure.
	Read(id uint32, addr uint64, p []byte) (n int, err error)

	// Write writes len(p) bytes to the target address space selected by
	// the packed CPP ID, starting at the byte offset addr. It returns the
	// number of bytes actually written.
	Write(id uint32, addr uint64, p []byte) (n int, err error)

	// MutexAlloc allocates a host-side descriptor for the hardware mutex
	// named by the {target, addr, key} triple. Allocation does not lock
	// the mutex. The returned descriptor must be released with Free once
	// the caller is done with it.
	MutexAlloc(target int, addr uint64, key uint32) (Mutex, error)

	// InterfaceID returns the bus-assigned identifier of this interface.
	// It is the owner value recorded in mutexes locked through this
	// handle.
	InterfaceID() uint32

	// Close releases the interface handle.
	Close() error
}

// Mutex is a descriptor for one hardware mutex. A descriptor is bound to
// the Interface that allocated it; the lock it takes is owned by that
// interface on the device side.
type Mutex interface {
	// Lock blocks until the mutex is acquired or the bus reports an
	// error.
	Lock() error

	// TryLock attempts to acquire the mutex without blocking. It returns
	// ErrMutexHeld if another actor holds it.
	TryLock() error

	// Unlock releases the mutex. It returns ErrMutexNotHeld if the
	// calling interface is not the current owner, which indicates a
	// protocol inconsistency on the device side.
	Unlock() error

	// Free releases the host-side descriptor. The mutex must not be used
	// afterwards. Freeing a locked mutex leaks the device-side lock.
	Free()
}

// --------------------------------------------------------------------------
// CPP ID Packing
// --------------------------------------------------------------------------

// ID packs a {target, action, token} triple into a 32-bit CPP ID. The
// encoding is fixed by the bus protocol and shared with firmware.
func ID(target, action, token uint8) uint32 {
	return uint32(target)<<24 | uint32(action)<<16 | uint32(token)<<8
}

// IDTarget extracts the target subsystem ID from a packed CPP ID.
func IDTarget(id uint32) uint8 {
	return uint8(id >> 24)
}

// IDAction extracts the action from a packed CPP ID.
func IDAction(id uint32) uint8 {
	return uint8(id >> 16)
}

// IDToken extracts the token from a packed CPP ID.
func IDToken(id uint32) uint8 {
	return uint8(id >> 8)
}

// IDString formats a packed CPP ID for logs and CLI output.
func IDString(id uint32) string {
	return fmt.Sprintf("target=%d action=%d token=%d", IDTarget(id), IDAction(id), IDToken(id))
}
