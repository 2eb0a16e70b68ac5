package navigation

import (
	"sync"
	"time"
)

// Timer schedules single-shot callbacks.
type Timer interface {
	ScheduleOnce(delay time.Duration, fn func()) Handle
	Cancel(h Handle)
}

// Router changes and reports the current route.
type Router interface {
	Push(path string)
	CurrentPath() string
}

// ClockTimer is a [Timer] backed by [time.AfterFunc].
//
// Expired callbacks are handed to dispatch, which should run them on the owner's event loop.
type ClockTimer struct {
	mu       sync.Mutex
	next     Handle
	timers   map[Handle]*time.Timer
	dispatch func(func())
}

var _ Timer = (*ClockTimer)(nil)

// NewClockTimer creates a ClockTimer. A nil dispatch runs callbacks on the timer goroutine.
func NewClockTimer(dispatch func(func())) *ClockTimer {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &ClockTimer{timers: make(map[Handle]*time.Timer), dispatch: dispatch}
}

// ScheduleOnce runs fn through dispatch after delay unless cancelled first.
func (c *ClockTimer) ScheduleOnce(delay time.Duration, fn func()) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	h := c.next
	c.timers[h] = time.AfterFunc(delay, func() {
		if c.take(h) {
			c.dispatch(fn)
		}
	})
	return h
}

// Cancel stops the timer for h. Unknown or fired handles are ignored.
func (c *ClockTimer) Cancel(h Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[h]; ok {
		t.Stop()
		delete(c.timers, h)
	}
}

// Stop cancels every outstanding timer.
func (c *ClockTimer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for h, t := range c.timers {
		t.Stop()
		delete(c.timers, h)
	}
}

// Outstanding returns the number of timers that have neither fired nor been cancelled.
func (c *ClockTimer) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *ClockTimer) take(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.timers[h]; !ok {
		return false
	}
	delete(c.timers, h)
	return true
}
