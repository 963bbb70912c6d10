// Package guard decides whether the current shopper may open a page.
package guard

import (
	"net/url"
	"path"
	"strings"

	"github.com/ikkim/storefront/internal/client/session"
)

const (
	AuthPath = "/auth"
	HomePath = "/"
)

type Access int

const (
	Public Access = iota
	Authenticated
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return "public"
	}
}

type State int

const (
	Loading State = iota
	Authorized
	Redirecting
)

func (s State) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Redirecting:
		return "redirecting"
	default:
		return "loading"
	}
}

// Decision is the outcome of a Check. Redirect is set only when redirecting.
// From is the page the shopper asked for, to return to after signing in.
type Decision struct {
	State    State
	Redirect string
	From     string
}

// SessionSource is what the guard reads on every navigation.
type SessionSource interface {
	Current() (session.Session, bool)
	Loaded() bool
}

// Route binds a path pattern to an access level. Patterns use ":name" for a
// single segment and a trailing "*" for any remainder.
type Route struct {
	Pattern string
	Access  Access
}

// DefaultRoutes is the storefront's page table.
var DefaultRoutes = []Route{
	{"/", Public},
	{"/auth", Public},
	{"/products", Public},
	{"/products/:id", Public},
	{"/cart", Public},
	{"/wishlist", Public},
	{"/profile", Authenticated},
	{"/orders", Authenticated},
	{"/orders/:id", Authenticated},
	{"/checkout", Authenticated},
	{"/admin", AdminOnly},
	{"/admin/*", AdminOnly},
}

type Guard struct {
	sessions SessionSource
	routes   []Route
}

func New(sessions SessionSource, routes []Route) *Guard {
	if routes == nil {
		routes = DefaultRoutes
	}
	return &Guard{sessions: sessions, routes: routes}
}

// AccessFor returns the access level of path. Unknown pages are public.
func (g *Guard) AccessFor(path string) Access {
	path = normalize(path)
	for _, r := range g.routes {
		if match(r.Pattern, path) {
			return r.Access
		}
	}
	return Public
}

// Check evaluates path against the current session. Nothing is cached.
func (g *Guard) Check(path string) Decision {
	path = normalize(path)
	access := g.AccessFor(path)
	if access == Public {
		return Decision{State: Authorized}
	}
	if !g.sessions.Loaded() {
		return Decision{State: Loading}
	}

	sess, ok := g.sessions.Current()
	if !ok {
		return Decision{State: Redirecting, Redirect: AuthPath, From: path}
	}
	if access == AdminOnly && !sess.User.IsAdmin() {
		return Decision{State: Redirecting, Redirect: HomePath}
	}
	return Decision{State: Authorized}
}

// AfterLogin is where a freshly signed-in shopper lands.
func AfterLogin(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || strings.EqualFold(normalize(from), AuthPath) {
		return HomePath
	}
	return normalize(from)
}

// LoginURL is the auth page carrying from as a query parameter.
func LoginURL(from string) string {
	if from == "" {
		return AuthPath
	}
	return AuthPath + "?" + url.Values{"from": {from}}.Encode()
}

// normalize strips the query and fragment and resolves dot segments, so
// "/products/../admin" is checked as "/admin".
func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return HomePath
	}
	return path.Clean("/" + p)
}

func match(pattern, path string) bool {
	pp := strings.Split(strings.Trim(pattern, "/"), "/")
	sp := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range pp {
		if seg == "*" {
			return len(sp) > i
		}
		if i >= len(sp) {
			return false
		}
		if strings.HasPrefix(seg, ":") {
			if sp[i] == "" {
				return false
			}
			continue
		}
		// Static segments match regardless of case; parameters keep theirs.
		if !strings.EqualFold(seg, sp[i]) {
			return false
		}
	}
	return len(sp) == len(pp)
}
