package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/netfabrik/resdir/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasName   byte = 1 << 0
	hasHandle byte = 1 << 1
	hasCppID  byte = 1 << 2
	hasAddr   byte = 1 << 3
	hasSize   byte = 1 << 4
	hasOk     byte = 1 << 5
	hasErr    byte = 1 << 6
	hasMeta   byte = 1 << 7
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	totalSize := b.sizeBytes(msg)
	result := make([]byte, totalSize)

	// Write message type
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	// Set position for writing
	pos := 2 // Start after MsgType and flags

	// Handle Name
	if msg.Name != "" {
		flags |= hasName
		nameBytes := []byte(msg.Name)
		nameLen := len(nameBytes)

		// Write name length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(nameLen))
		pos += 4

		// Write name data
		copy(result[pos:pos+nameLen], nameBytes)
		pos += nameLen
	}

	// Handle Handle
	if msg.Handle > 0 {
		flags |= hasHandle
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Handle)
		pos += 8
	}

	// Handle CppID
	if msg.CppID > 0 {
		flags |= hasCppID
		binary.BigEndian.PutUint32(result[pos:pos+4], msg.CppID)
		pos += 4
	}

	// Handle Addr
	if msg.Addr > 0 {
		flags |= hasAddr
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Addr)
		pos += 8
	}

	// Handle Size
	if msg.Size > 0 {
		flags |= hasSize
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Size)
		pos += 8
	}

	// Handle Ok
	if msg.Ok {
		flags |= hasOk
		result[pos] = 1
		pos += 1
	}

	// Handle Err (the return code travels with the error message)
	if msg.Err != "" {
		flags |= hasErr
		errBytes := []byte(msg.Err)
		errLen := len(errBytes)

		// Write error length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(errLen))
		pos += 4

		// Write error data
		copy(result[pos:pos+errLen], errBytes)
		pos += errLen

		// Write error code
		result[pos] = msg.ErrCode
		pos += 1
	}

	// Handle Meta
	if msg.Meta != nil {
		flags |= hasMeta
		metaLen := len(msg.Meta)

		// Write meta length
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(metaLen))
		pos += 4

		// Write meta data
		if metaLen > 0 {
			copy(result[pos:pos+metaLen], msg.Meta)
			pos += metaLen
		}
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	// Read message type
	msg.MsgType = common.MessageType(data[0])

	// Read flags
	flags := data[1]

	// Initialize read position
	pos := 2

	// Read Name if present
	if flags&hasName != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for name length")
		}

		// Read name length
		nameLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(nameLen) > len(data) {
			return fmt.Errorf("data too short for name data")
		}

		// Read name data
		msg.Name = string(data[pos : pos+int(nameLen)])
		pos += int(nameLen)
	} else {
		msg.Name = ""
	}

	// Read Handle if present
	if flags&hasHandle != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for handle")
		}

		msg.Handle = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	} else {
		msg.Handle = 0
	}

	// Read CppID if present
	if flags&hasCppID != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for cpp id")
		}

		msg.CppID = binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4
	} else {
		msg.CppID = 0
	}

	// Read Addr if present
	if flags&hasAddr != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for addr")
		}

		msg.Addr = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	} else {
		msg.Addr = 0
	}

	// Read Size if present
	if flags&hasSize != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for size")
		}

		msg.Size = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	} else {
		msg.Size = 0
	}

	// Read Ok if present
	if flags&hasOk != 0 {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for Ok flag")
		}

		msg.Ok = data[pos] != 0
		pos += 1
	} else {
		msg.Ok = false
	}

	// Read Err if present
	if flags&hasErr != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for error length")
		}

		// Read error length
		errLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(errLen)+1 > len(data) {
			return fmt.Errorf("data too short for error data")
		}

		// Read error data
		msg.Err = string(data[pos : pos+int(errLen)])
		pos += int(errLen)

		// Read error code
		msg.ErrCode = data[pos]
		pos += 1
	} else {
		msg.Err = ""
		msg.ErrCode = 0
	}

	// Read Meta if present
	if flags&hasMeta != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for meta length")
		}

		// Read meta length
		metaLen := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		if pos+int(metaLen) > len(data) {
			return fmt.Errorf("data too short for meta data")
		}

		// Read metadata - create an empty slice (not nil) if length is 0
		// Allocate only if needed
		if msg.Meta == nil || cap(msg.Meta) < int(metaLen) {
			msg.Meta = make([]byte, metaLen)
		} else {
			msg.Meta = msg.Meta[:metaLen]
		}

		if metaLen > 0 {
			copy(msg.Meta, data[pos:pos+int(metaLen)])
		}
		pos += int(metaLen)
	} else {
		msg.Meta = nil
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	// Add sizes for fields that require length encoding
	if msg.Name != "" {
		size += 4 + len(msg.Name) // 4 bytes for length + name string
	}
	if msg.Handle > 0 {
		size += 8 // uint64
	}
	if msg.CppID > 0 {
		size += 4 // uint32
	}
	if msg.Addr > 0 {
		size += 8 // uint64
	}
	if msg.Size > 0 {
		size += 8 // uint64
	}
	if msg.Ok {
		size += 1 // 1 byte for boolean
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err) + 1 // 4 bytes for length + error string + code
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta) // 4 bytes for length + meta bytes
	}

	return size
}
