package services

import (
	"sync"

	"github.com/desertthunder/vidtube/internal/models"
)

// SessionHub holds the process-wide [models.Session] and notifies subscribers on change.
type SessionHub struct {
	mu          sync.Mutex
	session     models.Session
	nextID      int
	subscribers map[int]func(models.Session)
}

var _ AuthSubscriber = (*SessionHub)(nil)

// NewSessionHub creates a hub with a signed-out session.
func NewSessionHub() *SessionHub {
	return &SessionHub{subscribers: make(map[int]func(models.Session))}
}

// Subscribe registers onChange and calls it with the current session before returning.
func (h *SessionHub) Subscribe(onChange func(models.Session)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subscribers[id] = onChange
	current := h.session
	h.mu.Unlock()

	onChange(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
		})
	}
}

// Current returns the current session.
func (h *SessionHub) Current() models.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// SignIn makes uid the signed-in viewer.
func (h *SessionHub) SignIn(uid string) {
	h.emit(models.SignedInAs(uid))
}

// SignOut signs the viewer out.
func (h *SessionHub) SignOut() {
	h.emit(models.SignedOut())
}

// Subscribers returns the number of active subscriptions.
func (h *SessionHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *SessionHub) emit(s models.Session) {
	h.mu.Lock()
	h.session = s
	fns := make([]func(models.Session), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
