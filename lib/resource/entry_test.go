package resource

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEntryCodecRoundtrip(t *testing.T) {
	e := entry{
		owner:      0x00000102,
		key:        DeriveKey("fw.cache"),
		name:       padName("fw.cache"),
		cppAction:  0,
		cppToken:   0,
		cppTarget:  7,
		pageOffset: 4,
		pageSize:   2,
	}

	p := encodeEntry(e)
	if len(p) != entrySize {
		t.Fatalf("encoded entry is %d bytes, want %d", len(p), entrySize)
	}

	got, err := decodeEntry(p)
	if err != nil {
		t.Fatalf("decodeEntry failed: %v", err)
	}
	if got != e {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, e)
	}
}

func TestEntryCodecLayout(t *testing.T) {
	// The byte positions are a firmware contract; pin them.
	e := entry{
		owner:      0xAABBCCDD,
		key:        0x11223344,
		name:       padName("res"),
		cppAction:  0x0a,
		cppToken:   0x0b,
		cppTarget:  0x0c,
		pageOffset: 0x01020304,
		pageSize:   0x05060708,
	}
	p := encodeEntry(e)

	if got := binary.BigEndian.Uint32(p[0:4]); got != e.owner {
		t.Errorf("owner at offset 0 = 0x%08x", got)
	}
	if got := binary.BigEndian.Uint32(p[4:8]); got != e.key {
		t.Errorf("key at offset 4 = 0x%08x", got)
	}
	if !bytes.Equal(p[8:16], []byte("res\x00\x00\x00\x00\x00")) {
		t.Errorf("name at offset 8 = %q", p[8:16])
	}
	if !bytes.Equal(p[16:21], make([]byte, 5)) {
		t.Errorf("reserved bytes are not zero: %v", p[16:21])
	}
	if p[21] != e.cppAction || p[22] != e.cppToken || p[23] != e.cppTarget {
		t.Errorf("cpp triple at offsets 21..23 = %v", p[21:24])
	}
	if got := binary.BigEndian.Uint32(p[24:28]); got != e.pageOffset {
		t.Errorf("page_offset at offset 24 = 0x%08x", got)
	}
	if got := binary.BigEndian.Uint32(p[28:32]); got != e.pageSize {
		t.Errorf("page_size at offset 28 = 0x%08x", got)
	}
}

func TestDecodeEntryShortBuffer(t *testing.T) {
	if _, err := decodeEntry(make([]byte, entrySize-1)); err == nil {
		t.Errorf("decodeEntry must reject a short buffer")
	}
}

func TestTableConstants(t *testing.T) {
	if TblEntries != TblSize/entrySize {
		t.Errorf("TblEntries = %d, want TblSize/entrySize = %d", TblEntries, TblSize/entrySize)
	}
	if len(TblName) > EntryNameSz {
		t.Errorf("reserved table name %q exceeds the name field", TblName)
	}
}
