// Package testing provides a reusable conformance suite for
// implementations of the cpp.Interface contract. Any backend - the
// in-memory simulator today, a hardware transport tomorrow - can assert
// that it provides the read/write and mutex semantics the resource
// directory depends on by running RunInterfaceTests against a harness.
package testing
