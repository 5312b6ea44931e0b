package stubber

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Liveness is invoked once per attribute inside the walk. On the device this
// pets the hardware watchdog and cedes the CPU so background tasks run; a
// full attribute dump of a large module would otherwise hold the scheduler
// long enough to trigger a reset.
type Liveness func()

// GoschedLiveness briefly yields the processor. Host-side default.
func GoschedLiveness() {
	runtime.Gosched()
}

// Watchdog tracks the time of the last liveness signal. Pet is handed to the
// walker as the liveness callback; Starved answers whether the bounded-time
// contract was broken.
type Watchdog struct {
	last atomic.Int64
}

// NewWatchdog starts the clock at construction time.
func NewWatchdog() *Watchdog {
	w := &Watchdog{}
	w.Pet()
	return w
}

// Pet records a liveness signal and cedes the CPU.
func (w *Watchdog) Pet() {
	w.last.Store(time.Now().UnixNano())
	runtime.Gosched()
}

// Starved reports whether no signal arrived within the timeout.
func (w *Watchdog) Starved(timeout time.Duration) bool {
	return time.Since(time.Unix(0, w.last.Load())) > timeout
}
