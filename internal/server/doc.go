// Package server serves the vidtube web front-end with the route guard applied to every request.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] implements it over
// [http.ServeMux]. The first [Middleware] passed to [BasicRouter.Use] is the outermost.
//
// Custom handlers implement [Handler], which wraps the stdlib handler interface and adds routes, so a
// handler owns the paths it serves.
//
// # Request Pipeline
//
// [New] installs, in order:
//   - [RequestLogger]: one log line per request
//   - [Localize]: picks a translator from Accept-Language
//   - [Sessions]: resolves the JWT session cookie into a models.Session
//   - [GuardRoutes]: loads the profile and answers guard redirects with 302 Found
//
// # Sign-in
//
// [AuthHandler] serves local sign-in (rate limited per client address), registration, sign-out, and the
// age verification form. [OAuthHandler] completes provider sign-in when auth.oauth is configured.
//
// Session tokens are HS256 JWTs issued by [TokenIssuer] and stored in an HttpOnly cookie.
package server
