package resource

// POSIX CRC-32 (the cksum(1) variant): polynomial 0x04C11DB7 processed
// most-significant-bit first, zero initial value, the message length
// appended low byte first, and the final remainder complemented. This is
// NOT the reflected CRC-32 implemented by hash/crc32, so the table is
// built here.

const crc32PosixPoly = 0x04C11DB7

var crc32PosixTable = makeCrc32PosixTable()

func makeCrc32PosixTable() [256]uint32 {
	var table [256]uint32
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ crc32PosixPoly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// crc32PosixAdd folds p into a running remainder.
func crc32PosixAdd(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crc<<8 ^ crc32PosixTable[byte(crc>>24)^b]
	}
	return crc
}

// crc32PosixEnd extends the remainder with the message length and
// complements it, per the POSIX checksum definition.
func crc32PosixEnd(crc uint32, total int) uint32 {
	for total != 0 {
		c := byte(total)
		crc = crc<<8 ^ crc32PosixTable[byte(crc>>24)^c]
		total >>= 8
	}
	return ^crc
}

// crc32Posix computes the POSIX CRC-32 checksum of p.
func crc32Posix(p []byte) uint32 {
	return crc32PosixEnd(crc32PosixAdd(0, p), len(p))
}

// --------------------------------------------------------------------------
// Key Derivation
// --------------------------------------------------------------------------

// DeriveKey maps a resource name to its 32-bit directory lookup key. The
// name is zero-padded on the right to the fixed 8-byte name field; the
// table's own reserved self-descriptor name maps to the sentinel key,
// every other name to the POSIX CRC-32 of the padded buffer. The
// function is pure: equal padded names always yield equal keys (and, by
// construction, names longer than 8 bytes are keyed by their first 8
// bytes only).
func DeriveKey(name string) uint32 {
	var pad [EntryNameSz]byte
	copy(pad[:], name)
	if pad == tblNamePadded {
		return TblKey
	}
	return crc32Posix(pad[:])
}
