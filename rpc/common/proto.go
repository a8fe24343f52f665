package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/netfabrik/resdir/lib/resource"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Name   string `json:"name,omitempty"`   // Used for: Acquire, Info requests; echoed in responses
	Handle uint64 `json:"handle,omitempty"` // Used for: Acquire response, Release request

	// Resource metadata (response only)
	CppID uint32 `json:"cpp_id,omitempty"` // Packed CPP ID of the resource region
	Addr  uint64 `json:"addr,omitempty"`   // Byte address of the resource region
	Size  uint64 `json:"size,omitempty"`   // Size of the resource region in bytes

	// Response only fields
	Ok      bool   `json:"ok,omitempty"`       // Whether the operation succeeded
	Err     string `json:"err,omitempty"`      // Empty if no error, otherwise the error message
	ErrCode uint8  `json:"err_code,omitempty"` // Directory return code, 0 if no error

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Unused, can be used for additional Adapters
}

// RemoteError reconstructs the error carried by a response message. It
// returns nil if the message carries no error. Directory errors keep
// their return code across the wire.
func (m *Message) RemoteError() error {
	if m.Err == "" {
		return nil
	}
	if m.ErrCode != 0 {
		return resource.NewError(resource.RetCode(m.ErrCode), m.Err)
	}
	return errors.New(m.Err)
}

// setError fills the error fields of a response message from an error value
func setError(msg *Message, err error) {
	if err == nil {
		return
	}
	msg.Err = err.Error()
	msg.ErrCode = uint8(resource.CodeOf(err))
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewAcquireRequest creates a new Acquire request
func NewAcquireRequest(name string) *Message {
	return &Message{
		MsgType: MsgTResAcquire,
		Name:    name,
	}
}

// NewAcquireResponse creates a new Acquire response
func NewAcquireResponse(handle uint64, name string, cppID uint32, addr, size uint64, err error) *Message {
	msg := &Message{
		MsgType: MsgTResAcquire,
		Ok:      err == nil,
		Handle:  handle,
		Name:    name,
		CppID:   cppID,
		Addr:    addr,
		Size:    size,
	}
	setError(msg, err)
	return msg
}

// NewReleaseRequest creates a new Release request
func NewReleaseRequest(handle uint64) *Message {
	return &Message{
		MsgType: MsgTResRelease,
		Handle:  handle,
	}
}

// NewReleaseResponse creates a new Release response
func NewReleaseResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTResRelease,
		Ok:      err == nil,
	}
	setError(msg, err)
	return msg
}

// NewInfoRequest creates a new Info request
func NewInfoRequest(name string) *Message {
	return &Message{
		MsgType: MsgTResInfo,
		Name:    name,
	}
}

// NewInfoResponse creates a new Info response
func NewInfoResponse(name string, cppID uint32, addr, size uint64, err error) *Message {
	msg := &Message{
		MsgType: MsgTResInfo,
		Ok:      err == nil,
		Name:    name,
		CppID:   cppID,
		Addr:    addr,
		Size:    size,
	}
	setError(msg, err)
	return msg
}

// NewCustomRequest creates a new Custom request
func NewCustomRequest(meta []byte) *Message {
	return &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
}

// NewCustomResponse creates a new Custom response
func NewCustomResponse(meta []byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
	setError(msg, err)
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTResAcquire:
		return "acquire"
	case MsgTResRelease:
		return "release"
	case MsgTResInfo:
		return "info"
	case MsgTCustom:
		return "custom"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "acquire":
		*t = MsgTResAcquire
	case "release":
		*t = MsgTResRelease
	case "info":
		*t = MsgTResInfo
	case "custom":
		*t = MsgTCustom
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IDirectory operations

	MsgTResAcquire // Look a resource up and lock it
	MsgTResRelease // Unlock a previously acquired resource
	MsgTResInfo    // Query a resource's metadata without holding it

	// Custom operations

	MsgTCustom // Custom operation type
)
