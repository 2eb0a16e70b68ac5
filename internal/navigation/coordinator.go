package navigation

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Default route-change delays.
const (
	DefaultPanelDelay = 400 * time.Millisecond
	DefaultPlainDelay = 150 * time.Millisecond
)

// Coordinator owns [State] and mediates between the side panel and the [Router].
type Coordinator struct {
	state      State
	router     Router
	timer      Timer
	panelDelay time.Duration
	plainDelay time.Duration
	logger     *log.Logger
}

// Option customizes a [Coordinator].
type Option func(*Coordinator)

// WithDelays overrides the panel and plain delays. Non-positive values keep the defaults.
func WithDelays(panel, plain time.Duration) Option {
	return func(c *Coordinator) {
		if panel > 0 {
			c.panelDelay = panel
		}
		if plain > 0 {
			c.plainDelay = plain
		}
	}
}

// WithLogger sets the logger used for navigation diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPanelOpen sets the initial panel state.
func WithPanelOpen(open bool) Option {
	return func(c *Coordinator) { c.state.IsPanelOpen = open }
}

// NewCoordinator creates a Coordinator pushing routes to router with delays scheduled on timer.
func NewCoordinator(router Router, timer Timer, opts ...Option) *Coordinator {
	c := &Coordinator{
		router:     router,
		timer:      timer,
		panelDelay: DefaultPanelDelay,
		plainDelay: DefaultPlainDelay,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the navigation state.
func (c *Coordinator) State() State { return c.state }

// NavigateTo closes the panel if needed and schedules a push to target, replacing any pending push.
//
// A request for the current path only closes the panel and drops any pending push.
func (c *Coordinator) NavigateTo(target string) {
	c.cancelPending()

	if target == c.router.CurrentPath() {
		c.state.IsPanelOpen = false
		c.state.IsNavigating = false
		c.state.IsPageTransitioning = false
		c.state.DestinationURL = ""
		return
	}

	c.state.DestinationURL = target
	c.state.IsPageTransitioning = true

	delay := c.plainDelay
	if c.state.IsPanelOpen {
		c.state.IsPanelOpen = false
		c.state.IsNavigating = true
		delay = c.panelDelay
	}

	var h Handle
	h = c.timer.ScheduleOnce(delay, func() { c.fire(h, target) })
	c.state.pending = h

	c.logger.Debug("navigation scheduled", "to", target, "delay", delay)
}

// Arrived tells the coordinator the router has landed after the scheduled push, at the destination
// or wherever a guard redirected it. Transition flags are cleared unless a push is still pending.
func (c *Coordinator) Arrived(path string) {
	if c.state.Pending() || !c.state.IsPageTransitioning {
		return
	}

	if path != c.state.DestinationURL {
		c.logger.Debug("navigation redirected", "wanted", c.state.DestinationURL, "landed", path)
	}

	c.state.IsPageTransitioning = false
	c.state.IsNavigating = false
	c.state.DestinationURL = ""
}

// OpenPanel opens the side panel.
func (c *Coordinator) OpenPanel() { c.state.IsPanelOpen = true }

// ClosePanel closes the side panel without navigating.
func (c *Coordinator) ClosePanel() { c.state.IsPanelOpen = false }

// TogglePanel flips the side panel.
func (c *Coordinator) TogglePanel() { c.state.IsPanelOpen = !c.state.IsPanelOpen }

// Close cancels any pending push. The coordinator must not be used afterwards.
func (c *Coordinator) Close() {
	c.cancelPending()
	c.state.IsNavigating = false
	c.state.IsPageTransitioning = false
	c.state.DestinationURL = ""
}

func (c *Coordinator) cancelPending() {
	if !c.state.Pending() {
		return
	}
	c.timer.Cancel(c.state.pending)
	c.state.pending = 0
}

func (c *Coordinator) fire(h Handle, target string) {
	if c.state.pending != h {
		return
	}
	c.state.pending = 0
	c.router.Push(target)
}
