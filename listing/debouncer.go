// Package listing holds the state behind every paginated, filterable list:
// a debouncer for search input and a lister that drops stale responses.
package listing

import (
	"sync"
	"time"
)

const DefaultDebounce = 500 * time.Millisecond

// Debouncer delays fire until calls stop arriving for one window. N calls
// inside a window produce one fire carrying the last value.
type Debouncer[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	fire    func(T)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer[T any](window time.Duration, fire func(T)) *Debouncer[T] {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer[T]{window: window, fire: fire}
}

// Call restarts the window with value. Calls after Stop are ignored.
func (d *Debouncer[T]) Call(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fire(value)
	})
}

// Pending reports whether a fire is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending fire for good.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
