// Package guard decides whether a page may be shown for the current session.
//
// Decide is a pure function of a session snapshot and the route's access
// level: while the session is loading nothing is decided, a signed-out user
// is sent to the login page (remembering where they were going), a regular
// user asking for an administrator page is sent to the landing page, and
// everything else renders.
package guard

import (
	"github.com/dmitrijs2005/artefacto/internal/client/session"
)

// Access is the level a route requires.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	}
	return "public"
}

type Outcome int

const (
	Pending Outcome = iota
	Redirect
	Render
)

func (o Outcome) String() string {
	switch o {
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "pending"
}

// Decision is the guard's verdict. Target is set for redirects; ReturnTo is
// set when the redirect is to the login page.
type Decision struct {
	Outcome  Outcome
	Target   string
	ReturnTo string
}

func Decide(snap session.Snapshot, access Access, requested string) Decision {
	switch {
	case snap.IsLoading:
		return Decision{Outcome: Pending}
	case access == Public:
		return Decision{Outcome: Render}
	case !snap.IsAuthenticated:
		return Decision{Outcome: Redirect, Target: LoginPath, ReturnTo: requested}
	case access == Admin && !snap.IsAdmin():
		return Decision{Outcome: Redirect, Target: HomePath}
	}
	return Decision{Outcome: Render}
}

// AfterLogin is where a successful login lands. Administrators always go
// to the admin area; everyone else returns to the page that sent them to
// login, or home.
func AfterLogin(snap session.Snapshot, returnTo string) string {
	if snap.IsAdmin() {
		return AdminHomePath
	}
	if returnTo == "" || returnTo == LoginPath || returnTo == RegisterPath {
		return HomePath
	}
	return returnTo
}

// Start resolves the entry path: home when signed in, onboarding otherwise.
func Start(snap session.Snapshot) Decision {
	if snap.IsLoading {
		return Decision{Outcome: Pending}
	}
	if snap.IsAuthenticated {
		return Decision{Outcome: Redirect, Target: HomePath}
	}
	return Decision{Outcome: Redirect, Target: OnboardingPath}
}
