// Package navigation sequences side-panel close animations with route changes.
//
// [Coordinator.NavigateTo] closes an open side panel before changing routes and exposes a
// page-transitioning flag so views can render placeholder content while the change is pending:
//
//   - Navigating to the current path only closes the panel.
//   - With the panel open, the panel closes and the route is pushed after the panel delay (400ms by default).
//   - With the panel closed, the route is pushed after the plain delay (150ms by default).
//
// Only one push is ever pending. The active timer [Handle] lives in [State] and a new request cancels it,
// so overlapping requests end in a single push to the latest target. [Coordinator.Close] cancels any pending push.
//
// The coordinator is the single writer of [State]. It is not safe for concurrent use: timer callbacks must be
// delivered on the same loop that calls NavigateTo, which [ClockTimer] does through its dispatch function.
package navigation
