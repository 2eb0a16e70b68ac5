package ui

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/navigation"
)

// maxRedirectDepth stops a push that keeps triggering further pushes from the same change.
const maxRedirectDepth = 8

// Router is the TUI's in-process route history.
//
// Each push notifies listeners synchronously on the update loop. A listener may push again (a guard redirect);
// the nested push completes before the outer notification continues.
type Router struct {
	current   string
	history   []string
	listeners []func(string)
	depth     int
	logger    *log.Logger
}

var (
	_ navigation.Router = (*Router)(nil)
	_ guard.Redirector  = (*Router)(nil)
)

// NewRouter creates a Router on initial.
func NewRouter(initial string, logger *log.Logger) *Router {
	return &Router{current: initial, history: []string{initial}, logger: logger}
}

// OnChange registers fn to run after every push.
func (r *Router) OnChange(fn func(path string)) {
	r.listeners = append(r.listeners, fn)
}

func (r *Router) Push(path string) {
	if r.depth >= maxRedirectDepth {
		r.logger.Error("dropping route change, too many nested redirects", "path", path)
		return
	}

	r.depth++
	defer func() { r.depth-- }()

	r.current = path
	r.history = append(r.history, path)
	r.logger.Debug("route change", "path", path)

	// A listener may redirect; later listeners must not see the replaced route.
	for _, fn := range r.listeners {
		fn(path)
		if r.current != path {
			return
		}
	}
}

func (r *Router) CurrentPath() string { return r.current }

// History returns every visited route, oldest first.
func (r *Router) History() []string {
	return append([]string(nil), r.history...)
}
