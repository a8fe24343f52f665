package client

import (
	"fmt"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/netfabrik/resdir/rpc/common"
	"github.com/netfabrik/resdir/rpc/serializer"
	"github.com/netfabrik/resdir/rpc/transport"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by the remote directory with composition pattern
type rpcClientAdapter struct {
	deviceId   uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a device ID, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type
func invokeRPCRequest(deviceId uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := transport.Send(deviceId, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	err = serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, fmt.Errorf("RPC DirectoryClient - Error: %s", err)
	}

	// Check if the response is an error response. Directory errors keep
	// their return code across the wire.
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		if err := resp.RemoteError(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("RPC DirectoryClient - Error: %s", resp.Err)
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("RPC DirectoryClient - Unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	// Return the response
	return resp, nil
}
