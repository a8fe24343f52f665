package server

import (
	"github.com/netfabrik/resdir/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses for one device
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It returns a Message as a response
	// If an error occurs, it should be set in the response
	Handle(req *common.Message) (resp *common.Message)
}
