package client

import (
	"github.com/netfabrik/resdir/lib/resource"
	"github.com/netfabrik/resdir/rpc/common"
	"github.com/netfabrik/resdir/rpc/serializer"
	"github.com/netfabrik/resdir/rpc/transport"
)

// IRemoteDirectory is the client-side view of a remote resource directory.
// It extends resource.IDirectory with a metadata query that never holds a
// lock and with connection lifecycle management.
type IRemoteDirectory interface {
	resource.IDirectory

	// Info returns the metadata of a named resource without leaving it
	// locked. The returned value is a snapshot, not a live handle; passing
	// it to Release is invalid.
	Info(name string) (resource.IResource, error)

	// Close closes the underlying transport connection.
	Close() error
}

// NewRPCResourceDirectory creates a new RPC resource directory client
// The function takes a device ID, a config, a transport and a serializer as parameters
// It returns an IRemoteDirectory and an error
func NewRPCResourceDirectory(
	deviceId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IRemoteDirectory, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC directory
	d := rpcDirectory{
		rpcClientAdapter{
			deviceId:   deviceId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC directory
	return &d, nil
}

type rpcDirectory struct {
	rpcClientAdapter
}

// remoteResource is the client-side handle for a resource locked on the
// server. The metadata is cached at acquire time; the wire handle is what
// Release sends back.
type remoteResource struct {
	name   string
	handle uint64
	cppID  uint32
	addr   uint64
	size   uint64
}

func (r *remoteResource) CPPID() uint32   { return r.cppID }
func (r *remoteResource) Name() string    { return r.name }
func (r *remoteResource) Address() uint64 { return r.addr }
func (r *remoteResource) Size() uint64    { return r.size }

// --------------------------------------------------------------------------
// Interface Methods (docu see the resource package in interface.go)
// --------------------------------------------------------------------------

func (d *rpcDirectory) Acquire(name string) (resource.IResource, error) {
	req := common.NewAcquireRequest(name)
	resp, err := invokeRPCRequest(d.deviceId, req, d.transport, d.serializer)
	if err != nil {
		return nil, err
	}
	return &remoteResource{
		name:   resp.Name,
		handle: resp.Handle,
		cppID:  resp.CppID,
		addr:   resp.Addr,
		size:   resp.Size,
	}, nil
}

func (d *rpcDirectory) Release(res resource.IResource) error {
	r, ok := res.(*remoteResource)
	if !ok {
		return resource.NewError(resource.RetCInvalid, "handle was not acquired from this directory")
	}
	if r.handle == 0 {
		return resource.NewError(resource.RetCInvalid, "resource already released")
	}

	req := common.NewReleaseRequest(r.handle)
	if _, err := invokeRPCRequest(d.deviceId, req, d.transport, d.serializer); err != nil {
		return err
	}

	r.handle = 0
	return nil
}

func (d *rpcDirectory) Info(name string) (resource.IResource, error) {
	req := common.NewInfoRequest(name)
	resp, err := invokeRPCRequest(d.deviceId, req, d.transport, d.serializer)
	if err != nil {
		return nil, err
	}
	return &remoteResource{
		name:  resp.Name,
		cppID: resp.CppID,
		addr:  resp.Addr,
		size:  resp.Size,
	}, nil
}

func (d *rpcDirectory) Close() error {
	return d.transport.Close()
}
