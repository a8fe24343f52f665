package server

import (
	"fmt"
	"sync/atomic"

	"github.com/netfabrik/resdir/lib/cpp"
	"github.com/netfabrik/resdir/lib/resource"
	"github.com/netfabrik/resdir/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// NewResourceDirectoryAdapter creates an adapter that exposes the resource
// directory of one device over RPC. The adapter owns the mapping from
// wire handles to live resource handles; a handle issued by one adapter
// is meaningless on any other.
func NewResourceDirectoryAdapter(dev cpp.Interface) IRPCServerAdapter {
	return &resourceDirectoryAdapter{
		dir:     resource.NewDirectory(dev),
		handles: xsync.NewMapOf[uint64, resource.IResource](),
	}
}

type resourceDirectoryAdapter struct {
	dir        resource.IDirectory
	handles    *xsync.MapOf[uint64, resource.IResource]
	nextHandle uint64 // Atomic counter, handles start at 1
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IRPCServerAdapter)
// --------------------------------------------------------------------------

func (a *resourceDirectoryAdapter) Handle(req *common.Message) (resp *common.Message) {
	switch req.MsgType {
	case common.MsgTResAcquire:
		res, err := a.dir.Acquire(req.Name)
		if err != nil {
			return common.NewAcquireResponse(0, req.Name, 0, 0, 0, err)
		}

		handle := atomic.AddUint64(&a.nextHandle, 1)
		a.handles.Store(handle, res)
		return common.NewAcquireResponse(handle, res.Name(), res.CPPID(), res.Address(), res.Size(), nil)

	case common.MsgTResRelease:
		res, ok := a.handles.LoadAndDelete(req.Handle)
		if !ok {
			return common.NewReleaseResponse(resource.NewError(
				resource.RetCInvalid,
				fmt.Sprintf("unknown resource handle %d", req.Handle),
			))
		}
		return common.NewReleaseResponse(a.dir.Release(res))

	case common.MsgTResInfo:
		// Info briefly locks the entry to take a consistent snapshot, then
		// releases it. The caller never owns the resource.
		res, err := a.dir.Acquire(req.Name)
		if err != nil {
			return common.NewInfoResponse(req.Name, 0, 0, 0, err)
		}

		resp := common.NewInfoResponse(res.Name(), res.CPPID(), res.Address(), res.Size(), nil)
		if err := a.dir.Release(res); err != nil {
			Logger.Errorf("failed to release info snapshot for %q: %v", req.Name, err)
		}
		return resp

	default:
		return common.NewErrorResponse(fmt.Sprintf("RPC DirectoryAdapter - Unsupported message type: %s", req.MsgType))
	}
}
