package fs

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of events per key. Each add resets the key's
// timer; fn runs once the key has been quiet for the delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok && t.Stop() {
		// The stopped timer never fires, so release its slot.
		d.wg.Done()
	}
	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// stopAndWait cancels pending timers and waits up to timeout for callbacks
// already running.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
