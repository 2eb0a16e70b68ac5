package guard

import "strings"

// Route paths the guard redirects to or always lets through.
const (
	RouteHome           = "/"
	RouteLogin          = "/auth/login"
	RouteRegister       = "/auth/register"
	RouteLogout         = "/auth/logout"
	RouteVerifyAge      = "/auth/verify-age"
	RouteForgotPassword = "/auth/forgot-password"
	RouteCallback       = "/auth/callback"
	RouteTrending       = "/trending"
	RouteSearch         = "/search"
	RouteUnderage       = RouteLogin + "?error=underage"
	RouteFailed         = RouteLogin + "?error=profile"

	// WatchPrefix is the per-item prefix for watch pages, e.g. /watch/123.
	WatchPrefix = "/watch/"
)

// AllowList is an immutable set of exact routes plus one per-item prefix.
type AllowList struct {
	exact  map[string]struct{}
	prefix string
}

// NewAllowList builds an [AllowList] from exact paths and a prefix. An empty prefix matches nothing.
func NewAllowList(prefix string, paths ...string) AllowList {
	exact := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		exact[p] = struct{}{}
	}
	return AllowList{exact: exact, prefix: prefix}
}

// With returns a copy of the list with extra exact paths added.
func (a AllowList) With(paths ...string) AllowList {
	all := make([]string, 0, len(a.exact)+len(paths))
	for p := range a.exact {
		all = append(all, p)
	}
	return NewAllowList(a.prefix, append(all, paths...)...)
}

// Allows reports whether path is an exact member or starts with the per-item prefix.
func (a AllowList) Allows(path string) bool {
	if _, ok := a.exact[path]; ok {
		return true
	}
	return a.MatchesPrefix(path)
}

// MatchesPrefix reports whether path is a per-item route.
func (a AllowList) MatchesPrefix(path string) bool {
	return a.prefix != "" && strings.HasPrefix(path, a.prefix)
}

// Paths returns the exact members in no particular order.
func (a AllowList) Paths() []string {
	paths := make([]string, 0, len(a.exact))
	for p := range a.exact {
		paths = append(paths, p)
	}
	return paths
}

// PublicRoutes are reachable by anyone.
var PublicRoutes = NewAllowList(WatchPrefix,
	RouteHome,
	RouteLogin,
	RouteRegister,
	RouteVerifyAge,
	RouteForgotPassword,
	RouteCallback,
	RouteTrending,
	RouteSearch,
)

// UnverifiedRoutes are reachable by signed-in viewers who have not verified their age yet.
var UnverifiedRoutes = PublicRoutes.With(RouteLogout)
