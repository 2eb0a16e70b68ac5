// Package guard decides whether the current viewer may reach a route.
//
// # Evaluation
//
// [Evaluate] is a pure function over a [models.Session], an optional [models.Profile], and a path.
// It returns a [Decision] that either allows the route or names a redirect target:
//
//  1. Paths on the [AllowList] (exact match or the per-item "/watch/" prefix) are always allowed.
//  2. Signed-out viewers are sent to [RouteLogin].
//  3. A signed-in viewer whose profile has not arrived yet is allowed; the profile is treated as still loading.
//  4. Viewers who have not verified their age may only reach the public routes, [RouteLogout], and watch pages;
//     everything else redirects to [RouteVerifyAge].
//  5. Viewers explicitly flagged as not adult are sent to [RouteUnderage].
//
// # Guard
//
// [Guard] holds the latest inputs and re-evaluates whenever one of them changes through
// [Guard.SetSession], [Guard.SetProfile], [Guard.SetLoading], or [Guard.SetPath].
// While loading it does nothing. A redirect decision is handed to the [Redirector]; that is the only effect.
//
// [Guard.NeedsAgeVerification] is readable synchronously so UI can react before a redirect fires.
//
// Guard is not safe for concurrent use; it is owned by a single event loop.
package guard
