package sash

import "sync"

// ShutdownGuard keeps the event loop running while no windows are open.
// Acquire one through App.PreventShutdown and release it exactly when the
// reason for staying alive ends; Release is idempotent.
type ShutdownGuard struct {
	st   *appState
	once sync.Once
}

// Release gives the guard back. When it was the last guard and no windows
// remain open, the event loop shuts down.
func (g *ShutdownGuard) Release() {
	g.once.Do(func() {
		_ = g.st.post(guardRelease{})
	})
}
