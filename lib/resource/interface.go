package resource

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IResource is the caller-facing view of a successfully locked resource.
// All methods are pure projections with no side effects; they may be
// called any number of times while the handle is live.
type IResource interface {
	// CPPID returns the packed CPP ID used to address the resource's own
	// memory (not the directory).
	CPPID() uint32
	// Name returns the resource name, truncated to the 8-byte name field.
	Name() string
	// Address returns the byte address of the resource region.
	Address() uint64
	// Size returns the size of the resource region in bytes.
	Size() uint64
}

// IDirectory is the interface for a resource directory. Both the local
// implementation in this package and the RPC client implement it, so
// callers are independent of whether they own the bus or go through a
// daemon.
type IDirectory interface {
	// Acquire looks the name up in the directory and locks the matching
	// entry. On success the returned handle exclusively owns the
	// per-entry lock until it is passed to Release. The error code
	// distinguishes NotFound, Contended, IOFailure and Exhausted.
	Acquire(name string) (IResource, error)

	// Release unlocks and discards a handle previously returned by
	// Acquire on the same directory. Device-side inconsistencies during
	// unlock are logged, never returned; the only error case is a handle
	// that did not come from this directory.
	Release(res IResource) error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by directory operations. It wraps a
// return code (of type RetCode) and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ResourceError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// CodeOf extracts the RetCode from an error returned by this package.
// It returns RetCInternal for foreign errors and RetCSuccess for nil.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return RetCInternal
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess   RetCode = iota // 0: Operation completed successfully.
	RetCInternal                 // 1: Internal or unclassified error.
	RetCExhausted                // 2: Mutex or record allocation failed.
	RetCNotFound                 // 3: Scan exhausted without a key match.
	RetCIOFailure                // 4: Short read from the bus during a scan.
	RetCContended                // 5: Per-entry lock held by another actor.
	RetCInvalid                  // 6: Invalid argument or foreign handle.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternal:
		return "Internal"
	case RetCExhausted:
		return "Exhausted"
	case RetCNotFound:
		return "NotFound"
	case RetCIOFailure:
		return "IOFailure"
	case RetCContended:
		return "Contended"
	case RetCInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}
