package reg

import (
	"errors"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/netfabrik/resdir/lib/cpp"
)

var Logger = logger.GetLogger("reg")

// --------------------------------------------------------------------------
// Sentinel Errors
// --------------------------------------------------------------------------

var (
	// ErrInvalidOps is returned by Register for a nil or unnamed
	// callback set.
	ErrInvalidOps = errors.New("reg: invalid ops")

	// ErrNotReady is returned by Register while no device is attached to
	// the context. Callers may retry after attaching one.
	ErrNotReady = errors.New("reg: no device attached yet")

	// ErrAlreadyRegistered is returned by Register while another
	// application layer holds the registration.
	ErrAlreadyRegistered = errors.New("reg: an application layer is already registered")
)

// --------------------------------------------------------------------------
// Application Layer Callbacks
// --------------------------------------------------------------------------

// Ops is the callback set an application layer registers. Name is
// mandatory and identifies the layer in logs. Init runs during Register
// with the registration lock held; a failing Init rolls the whole
// registration back. Stop runs during Unregister.
type Ops struct {
	Name string
	Init func(cookie any) error
	Stop func(cookie any)
}

// --------------------------------------------------------------------------
// Global Device Context
// --------------------------------------------------------------------------

// context is the process-wide registration state. There is exactly one,
// mirroring the single driver instance the registration glue fronts.
type context struct {
	mu      sync.Mutex
	devices []cpp.Interface
	ops     *Ops
	cookie  any
}

var ctx context

// AttachDevice records a bound device in the context. Registration is
// refused until the first device is attached.
func AttachDevice(c cpp.Interface) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.devices = append(ctx.devices, c)
	Logger.Infof("attached device, interface 0x%04x (%d total)", c.InterfaceID(), len(ctx.devices))
}

// Register installs an application layer. It fails if ops is nil or
// unnamed, if no device has been attached, or if another layer is
// already registered. A failing Init leaves the context unregistered.
func Register(ops *Ops, cookie any) error {
	if ops == nil || ops.Name == "" {
		return ErrInvalidOps
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if len(ctx.devices) == 0 {
		return ErrNotReady
	}
	if ctx.ops != nil {
		return ErrAlreadyRegistered
	}

	ctx.ops = ops
	ctx.cookie = cookie

	if ops.Init != nil {
		if err := ops.Init(cookie); err != nil {
			ctx.ops = nil
			ctx.cookie = nil
			return err
		}
	}

	Logger.Infof("registered new application layer, %s", ops.Name)
	return nil
}

// Unregister removes the current application layer, stopping its
// callbacks, and returns the cookie it was registered with. It returns
// nil if nothing is registered.
func Unregister() any {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if ctx.ops == nil {
		return nil
	}

	name := ctx.ops.Name
	if ctx.ops.Stop != nil {
		ctx.ops.Stop(ctx.cookie)
	}

	cookie := ctx.cookie
	ctx.ops = nil
	ctx.cookie = nil

	Logger.Infof("unregistered application layer, %s", name)
	return cookie
}

// reset clears the whole context. Test helper.
func reset() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.devices = nil
	ctx.ops = nil
	ctx.cookie = nil
}
