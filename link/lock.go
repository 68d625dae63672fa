package link

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// portLocks maps a port name to a one-slot semaphore held by the session
// that currently owns the port.
var portLocks = xsync.NewMapOf[string, chan struct{}]()

func portLock(name string) chan struct{} {
	lock, _ := portLocks.LoadOrCompute(name, func() chan struct{} {
		return make(chan struct{}, 1)
	})

	return lock
}

// acquirePort blocks until the caller owns name or ctx is done.
func acquirePort(ctx context.Context, name string) error {
	select {
	case portLock(name) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// releasePort gives up ownership of name. It must only be called by the
// owner.
func releasePort(name string) {
	select {
	case <-portLock(name):
	default:
	}
}
