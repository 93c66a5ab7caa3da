package guard

import (
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/client/session"
)

const (
	StartPath      = "/start"
	OnboardingPath = "/onboarding"
	LoginPath      = "/login"
	RegisterPath   = "/register"
	HomePath       = "/"
	AdminHomePath  = "/admin/temples"
)

// Route is one page of the client.
type Route struct {
	Pattern string
	Access  Access
	Title   string
}

// Routes lists every page. Patterns use ":name" for a path parameter.
var Routes = []Route{
	{Pattern: StartPath, Access: Public, Title: "Start"},
	{Pattern: OnboardingPath, Access: Public, Title: "Welcome"},
	{Pattern: LoginPath, Access: Public, Title: "Login"},
	{Pattern: RegisterPath, Access: Public, Title: "Register"},

	{Pattern: HomePath, Access: Authenticated, Title: "Home"},
	{Pattern: "/temples", Access: Authenticated, Title: "Temples"},
	{Pattern: "/temples/:id", Access: Authenticated, Title: "Temple"},
	{Pattern: "/artifacts", Access: Authenticated, Title: "Artifacts"},
	{Pattern: "/artifacts/:id", Access: Authenticated, Title: "Artifact"},
	{Pattern: "/bookmarks", Access: Authenticated, Title: "Bookmarks"},
	{Pattern: "/tickets", Access: Authenticated, Title: "Tickets"},
	{Pattern: "/tickets/:id", Access: Authenticated, Title: "Ticket"},
	{Pattern: "/my-tickets", Access: Authenticated, Title: "My tickets"},
	{Pattern: "/my-tickets/:id", Access: Authenticated, Title: "My ticket"},
	{Pattern: "/scan", Access: Authenticated, Title: "Scan"},
	{Pattern: "/profile", Access: Authenticated, Title: "Profile"},

	{Pattern: "/admin/temples", Access: Admin, Title: "Manage temples"},
	{Pattern: "/admin/temples/create", Access: Admin, Title: "New temple"},
	{Pattern: "/admin/temples/:id/edit", Access: Admin, Title: "Edit temple"},
	{Pattern: "/admin/artifacts", Access: Admin, Title: "Manage artifacts"},
	{Pattern: "/admin/artifacts/create", Access: Admin, Title: "New artifact"},
	{Pattern: "/admin/artifacts/:id/edit", Access: Admin, Title: "Edit artifact"},
	{Pattern: "/admin/tickets", Access: Admin, Title: "Manage tickets"},
	{Pattern: "/admin/tickets/create", Access: Admin, Title: "New ticket"},
	{Pattern: "/admin/tickets/:id/edit", Access: Admin, Title: "Edit ticket"},
	{Pattern: "/admin/transactions", Access: Admin, Title: "Transactions"},
}

// Params holds the values of a route's ":name" segments.
type Params map[string]string

// Match finds the route for path. Literal segments beat parameters, so
// "/admin/temples/create" is not read as an id.
func Match(path string) (Route, Params, bool) {
	parts := split(path)

	var (
		best       Route
		bestParams Params
		bestScore  = -1
	)
	for _, r := range Routes {
		params, score, ok := match(split(r.Pattern), parts)
		if ok && score > bestScore {
			best, bestParams, bestScore = r, params, score
		}
	}
	return best, bestParams, bestScore >= 0
}

func match(pattern, parts []string) (Params, int, bool) {
	if len(pattern) != len(parts) {
		return nil, 0, false
	}

	params := Params{}
	score := 0
	for i, seg := range pattern {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if parts[i] == "" {
				return nil, 0, false
			}
			params[name] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, 0, false
		}
		score++
	}
	return params, score, true
}

// Clean normalises a requested path: no query, no trailing slash, always
// rooted.
func Clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")
	return path
}

func split(path string) []string {
	path = strings.Trim(Clean(path), "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

// Resolve combines matching and deciding. Unknown paths redirect to the
// start page; the start page itself redirects according to the session.
func Resolve(snap session.Snapshot, path string) (Route, Params, Decision) {
	path = Clean(path)

	route, params, ok := Match(path)
	if !ok {
		if snap.IsLoading {
			return Route{}, nil, Decision{Outcome: Pending}
		}
		return Route{}, nil, Decision{Outcome: Redirect, Target: StartPath}
	}

	if route.Pattern == StartPath {
		return route, params, Start(snap)
	}

	return route, params, Decide(snap, route.Access, path)
}

// Path fills a pattern's parameters in order: Path("/temples/:id", "3").
func Path(pattern string, values ...string) string {
	segs := split(pattern)
	i := 0
	for n, seg := range segs {
		if strings.HasPrefix(seg, ":") && i < len(values) {
			segs[n] = values[i]
			i++
		}
	}
	return "/" + strings.Join(segs, "/")
}
