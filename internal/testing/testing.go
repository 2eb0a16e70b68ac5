// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/desertthunder/vidtube/internal/navigation"
)

// ManualTimer is a [navigation.Timer] driven by [ManualTimer.Advance] instead of the wall clock.
type ManualTimer struct {
	now     time.Duration
	next    navigation.Handle
	pending map[navigation.Handle]*scheduled
	// Delays records the delay of every ScheduleOnce call, in call order.
	Delays []time.Duration
}

type scheduled struct {
	handle navigation.Handle
	at     time.Duration
	fn     func()
}

var _ navigation.Timer = (*ManualTimer)(nil)

// NewManualTimer creates a ManualTimer at time zero.
func NewManualTimer() *ManualTimer {
	return &ManualTimer{pending: make(map[navigation.Handle]*scheduled)}
}

func (m *ManualTimer) ScheduleOnce(delay time.Duration, fn func()) navigation.Handle {
	m.next++
	m.pending[m.next] = &scheduled{handle: m.next, at: m.now + delay, fn: fn}
	m.Delays = append(m.Delays, delay)
	return m.next
}

func (m *ManualTimer) Cancel(h navigation.Handle) {
	delete(m.pending, h)
}

// Advance moves time forward by d, firing due callbacks in deadline order.
func (m *ManualTimer) Advance(d time.Duration) {
	target := m.now + d
	for {
		due := m.due(target)
		if due == nil {
			break
		}
		delete(m.pending, due.handle)
		m.now = due.at
		due.fn()
	}
	m.now = target
}

// Pending returns the number of scheduled callbacks that have not fired or been cancelled.
func (m *ManualTimer) Pending() int { return len(m.pending) }

func (m *ManualTimer) due(target time.Duration) *scheduled {
	var ready []*scheduled
	for _, s := range m.pending {
		if s.at <= target {
			ready = append(ready, s)
		}
	}
	if len(ready) == 0 {
		return nil
	}
	sort.Slice(ready, func(i, j int) bool {
		if ready[i].at == ready[j].at {
			return ready[i].handle < ready[j].handle
		}
		return ready[i].at < ready[j].at
	})
	return ready[0]
}

// FakeRouter records pushes and reports the last pushed path as current.
type FakeRouter struct {
	Current string
	Pushes  []string
	// OnPush, when set, runs after each push with the new path.
	OnPush func(path string)
}

// NewFakeRouter creates a FakeRouter on path.
func NewFakeRouter(path string) *FakeRouter {
	return &FakeRouter{Current: path}
}

func (r *FakeRouter) Push(path string) {
	r.Pushes = append(r.Pushes, path)
	r.Current = path
	if r.OnPush != nil {
		r.OnPush(path)
	}
}

func (r *FakeRouter) CurrentPath() string { return r.Current }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// AssertRedirect fails the test unless resp is a 302 to location.
func AssertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected status %d, got %d", http.StatusFound, resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Errorf("expected redirect to %q, got %q", location, got)
	}
}
