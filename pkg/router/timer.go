package router

import "time"

// Timer schedules the smart-back fallback probe. Injected so tests can fire
// it deterministically.
type Timer interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type systemTimer struct{}

func (systemTimer) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// SystemTimer returns a Timer backed by time.AfterFunc.
func SystemTimer() Timer {
	return systemTimer{}
}
