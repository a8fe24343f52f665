package resource

import (
	"encoding/binary"
	"fmt"
)

// --------------------------------------------------------------------------
// Directory Table Constants
// --------------------------------------------------------------------------

// The table's location and layout are a hardware/firmware contract and
// must match what provisioning tooling writes.
const (
	// EntryNameSz is the fixed width of the name field. Shorter names are
	// zero-padded, longer names are truncated.
	EntryNameSz = 8

	// TblTarget is the CPP target the table lives on.
	TblTarget = 7
	// TblBase is the byte address of the table within TblTarget.
	TblBase uint64 = 0x8100000000
	// TblSize is the total size of the table in bytes.
	TblSize = 4096

	// TblName is the reserved name of the table's self-descriptor entry.
	TblName = "res.tbl"
	// TblKey is the sentinel key of the self-descriptor entry. It doubles
	// as the key of the device lock that serializes directory scans.
	TblKey uint32 = 0

	// actionAtomicRead is the CPP action for one atomic read of a full
	// entry during a scan.
	actionAtomicRead = 3

	// entrySize is the on-wire size of one entry: the 8-byte mutex word
	// followed by the 24-byte region descriptor.
	entrySize = 8 + 24

	// TblEntries is the number of usable entries; trailing bytes of the
	// table are unused.
	TblEntries = TblSize / entrySize

	// pageShift converts between stored page units and byte values.
	// Offsets and sizes are stored in 256-byte pages.
	pageShift = 8
)

// tblNamePadded is TblName in its zero-padded on-wire form, used by
// DeriveKey to recognize the self-descriptor.
var tblNamePadded = padName(TblName)

func padName(name string) [EntryNameSz]byte {
	var pad [EntryNameSz]byte
	copy(pad[:], name)
	return pad
}

// --------------------------------------------------------------------------
// Entry Codec
// --------------------------------------------------------------------------

// entry is the decoded form of one 32-byte directory slot.
//
// Wire layout (big endian, per the bus convention):
//
//	off  0: owner       u32   mutex word: current lock holder (bus-managed)
//	off  4: key         u32   mutex word: lookup key for this entry
//	off  8: name        [8]u8 zero-padded ASCII, not necessarily NUL-terminated
//	off 16: reserved    [5]u8
//	off 21: cpp_action  u8
//	off 22: cpp_token   u8
//	off 23: cpp_target  u8
//	off 24: page_offset u32   in 256-byte pages
//	off 28: page_size   u32   in 256-byte pages
type entry struct {
	owner      uint32
	key        uint32
	name       [EntryNameSz]byte
	cppAction  uint8
	cppToken   uint8
	cppTarget  uint8
	pageOffset uint32
	pageSize   uint32
}

// decodeEntry parses one directory slot. The caller guarantees that p
// holds a full entry; the length check guards against codec misuse, not
// short bus reads (those abort the scan before decoding).
func decodeEntry(p []byte) (entry, error) {
	if len(p) < entrySize {
		return entry{}, fmt.Errorf("entry too short: %d bytes, need %d", len(p), entrySize)
	}

	var e entry
	e.owner = binary.BigEndian.Uint32(p[0:4])
	e.key = binary.BigEndian.Uint32(p[4:8])
	copy(e.name[:], p[8:16])
	// p[16:21] reserved
	e.cppAction = p[21]
	e.cppToken = p[22]
	e.cppTarget = p[23]
	e.pageOffset = binary.BigEndian.Uint32(p[24:28])
	e.pageSize = binary.BigEndian.Uint32(p[28:32])
	return e, nil
}

// encodeEntry renders an entry into its on-wire form. Used by
// provisioning only; the directory itself never writes entries.
func encodeEntry(e entry) []byte {
	p := make([]byte, entrySize)
	binary.BigEndian.PutUint32(p[0:4], e.owner)
	binary.BigEndian.PutUint32(p[4:8], e.key)
	copy(p[8:16], e.name[:])
	p[21] = e.cppAction
	p[22] = e.cppToken
	p[23] = e.cppTarget
	binary.BigEndian.PutUint32(p[24:28], e.pageOffset)
	binary.BigEndian.PutUint32(p[28:32], e.pageSize)
	return p
}
