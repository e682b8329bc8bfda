package controller

// Surface receives a snapshot after every roster state change.
//
// Render is called synchronously, outside the controller lock, in
// subscription order. Concurrent mutations may deliver snapshots out of
// order; surfaces compare Revision to drop stale ones.
type Surface interface {
	Render(Snapshot)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Snapshot)

// Render calls f(snapshot).
func (f SurfaceFunc) Render(snapshot Snapshot) {
	f(snapshot)
}

type subscription struct {
	id      int
	surface Surface
}
