package cli

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/guard"
)

const maxRedirects = 8

// loadingTimeout bounds how long a command waits for session restore.
var loadingTimeout = 10 * time.Second

var (
	errTooManyRedirects = errors.New("too many redirects")
	errStillLoading     = errors.New("session is still loading")
)

// page renders one route. Params carries the route's ":name" values.
type page func(ctx context.Context, p guard.Params) error

// Open shows the page at path, following the guard's redirects.
func (a *App) Open(ctx context.Context, path string) error {
	return a.visit(ctx, path, nil)
}

// visit resolves path through the guard. When the guard lets it render,
// action runs in place of the route's page if one is given. A redirect
// drops the action: the user lands on the redirect target instead.
func (a *App) visit(ctx context.Context, path string, action page) error {
	for hops := 0; hops < maxRedirects; hops++ {
		route, params, d := guard.Resolve(a.state.Snapshot(), path)

		switch d.Outcome {
		case guard.Pending:
			if err := a.waitLoaded(ctx); err != nil {
				return err
			}
			continue

		case guard.Redirect:
			a.logger.Debug(ctx, "redirect", "from", path, "to", d.Target)
			if d.Target == guard.LoginPath {
				a.setReturnTo(d.ReturnTo)
			}
			path, action = d.Target, nil
			continue
		}

		a.setPath(guard.Clean(path))
		if action != nil {
			return action(ctx, params)
		}
		if render := a.pages[route.Pattern]; render != nil {
			return render(ctx, params)
		}
		return nil
	}
	return errTooManyRedirects
}

func (a *App) waitLoaded(ctx context.Context) error {
	updates, cancel := a.state.Subscribe()
	defer cancel()

	if !a.state.Snapshot().IsLoading {
		return nil
	}

	timeout := time.NewTimer(loadingTimeout)
	defer timeout.Stop()

	for {
		select {
		case snap := <-updates:
			if !snap.IsLoading {
				return nil
			}
		case <-timeout.C:
			return errStillLoading
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *App) routes() map[string]page {
	return map[string]page{
		guard.OnboardingPath: a.onboardingPage,
		guard.LoginPath:      a.loginPage,
		guard.RegisterPath:   a.registerPage,
		guard.HomePath:       a.homePage,
		"/profile":           a.profilePage,

		"/temples":        a.templesPage,
		"/temples/:id":    a.templePage,
		"/artifacts":      a.artifactsPage,
		"/artifacts/:id":  a.artifactPage,
		"/bookmarks":      a.bookmarksPage,
		"/tickets":        a.ticketsPage,
		"/tickets/:id":    a.ticketPage,
		"/my-tickets":     a.ownedTicketsPage,
		"/my-tickets/:id": a.ownedTicketPage,
		"/scan":           a.scanPage,

		"/admin/temples":            a.adminTemplesPage,
		"/admin/temples/create":     a.adminTempleForm,
		"/admin/temples/:id/edit":   a.adminTempleForm,
		"/admin/artifacts":          a.adminArtifactsPage,
		"/admin/artifacts/create":   a.adminArtifactForm,
		"/admin/artifacts/:id/edit": a.adminArtifactForm,
		"/admin/tickets":            a.adminTicketsPage,
		"/admin/tickets/create":     a.adminTicketForm,
		"/admin/tickets/:id/edit":   a.adminTicketForm,
		"/admin/transactions":       a.adminTransactionsPage,
	}
}
