package resource

import (
	"fmt"

	"github.com/netfabrik/resdir/lib/cpp"
)

// --------------------------------------------------------------------------
// Table Provisioning
// --------------------------------------------------------------------------

// Spec describes one resource to be provisioned into the directory
// table. Offsets and sizes are given in 256-byte pages, exactly as they
// are stored on the device.
type Spec struct {
	Name       string `yaml:"name"`
	Target     uint8  `yaml:"target"`
	Action     uint8  `yaml:"action"`
	Token      uint8  `yaml:"token"`
	PageOffset uint32 `yaml:"page_offset"`
	PageSize   uint32 `yaml:"page_size"`
}

// Provision writes a complete directory table: the self-descriptor in
// slot zero followed by one entry per spec, all remaining slots zeroed.
// This is the firmware side of the contract - the directory layer itself
// never writes the table, and on real hardware this step is performed by
// provisioning tooling before the host attaches.
//
// Provision does not take the device lock; it must not run concurrently
// with Acquire on the same device.
func Provision(c cpp.Interface, specs []Spec) error {
	if len(specs)+1 > TblEntries {
		return NewError(RetCInvalid, fmt.Sprintf("%d resources exceed the %d-entry table", len(specs), TblEntries-1))
	}

	table := make([]byte, TblSize)

	// Slot 0: the table describes itself, under the sentinel key.
	self := entry{
		key:        TblKey,
		name:       tblNamePadded,
		cppTarget:  TblTarget,
		pageOffset: uint32(TblBase >> pageShift),
		pageSize:   TblSize >> pageShift,
	}
	copy(table, encodeEntry(self))

	for i, spec := range specs {
		if spec.Name == "" {
			return NewError(RetCInvalid, fmt.Sprintf("resource %d has an empty name", i))
		}
		if len(spec.Name) > EntryNameSz {
			return NewError(RetCInvalid, fmt.Sprintf("resource name %q exceeds %d bytes", spec.Name, EntryNameSz))
		}
		if spec.Name == TblName {
			return NewError(RetCInvalid, fmt.Sprintf("resource name %q is reserved for the table self-descriptor", spec.Name))
		}

		e := entry{
			key:        DeriveKey(spec.Name),
			name:       padName(spec.Name),
			cppAction:  spec.Action,
			cppToken:   spec.Token,
			cppTarget:  spec.Target,
			pageOffset: spec.PageOffset,
			pageSize:   spec.PageSize,
		}
		copy(table[(i+1)*entrySize:], encodeEntry(e))
	}

	id := cpp.ID(TblTarget, 0, 0)
	n, err := c.Write(id, TblBase, table)
	if err != nil {
		return NewError(RetCIOFailure, fmt.Sprintf("writing directory table: %v", err))
	}
	if n != TblSize {
		return NewError(RetCIOFailure, fmt.Sprintf("short write of directory table: %d of %d bytes", n, TblSize))
	}

	Logger.Infof("provisioned directory table with %d resources", len(specs))
	return nil
}
