package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/guard"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/services"
)

func id(p guard.Params) models.ID {
	return models.ID(p["id"])
}

func (a *App) templesPage(ctx context.Context, _ guard.Params) error {
	temples, err := a.catalog.Temples(ctx)
	if err != nil {
		return err
	}

	a.title("Temples")
	rows := make([][]string, 0, len(temples))
	for _, t := range temples {
		rows = append(rows, []string{t.TempleID.String(), t.Title, truncate(t.Description, 50)})
	}
	a.table([]string{"ID", "TITLE", "ABOUT"}, rows)
	a.hint("temples <id> for details")
	return nil
}

func (a *App) templePage(ctx context.Context, p guard.Params) error {
	d, err := a.catalog.Temple(ctx, id(p))
	if err != nil {
		return err
	}

	t := d.Temple
	a.title(t.Title)
	a.fields(
		"Description", t.Description,
		"Location", t.LocationURL,
		"Fun fact", t.FunfactTitle,
		"", t.FunfactDescription,
	)

	fmt.Fprintln(a.out, "\nArtifacts")
	a.artifactTable(d.Artifacts)
	return nil
}

func (a *App) artifactTable(artifacts []models.Artifact) {
	rows := make([][]string, 0, len(artifacts))
	for _, x := range artifacts {
		rows = append(rows, []string{
			x.ArtifactID.String(),
			x.Title,
			mark(x.Bookmarked, "★"),
			mark(x.Read, "read"),
		})
	}
	a.table([]string{"ID", "TITLE", "", ""}, rows)
}

func (a *App) artifactsPage(ctx context.Context, _ guard.Params) error {
	artifacts, err := a.catalog.Artifacts(ctx)
	if err != nil {
		return err
	}

	a.title("Artifacts")
	a.artifactTable(artifacts)
	a.hint("artifacts <id>, bookmark <id>, read <id>")
	return nil
}

func (a *App) artifactPage(ctx context.Context, p guard.Params) error {
	x, err := a.catalog.Artifact(ctx, id(p))
	if err != nil {
		return err
	}

	a.title(x.Title)
	a.fields(
		"Description", x.Description,
		"Period", x.DetailPeriod,
		"Material", x.DetailMaterial,
		"Size", x.DetailSize,
		"Style", x.DetailStyle,
		"More", x.AdditionalInfo,
		"Fun fact", x.FunfactTitle,
		"", x.FunfactDescription,
		"Location", x.LocationURL,
		"Bookmarked", mark(x.Bookmarked, "yes"),
		"Read", mark(x.Read, "yes"),
	)
	return nil
}

func (a *App) bookmarksPage(ctx context.Context, _ guard.Params) error {
	artifacts, err := a.catalog.Bookmarks(ctx)
	if err != nil {
		return err
	}

	a.title("Bookmarks")
	a.artifactTable(artifacts)
	return nil
}

// Bookmark toggles the bookmark on an artifact.
func (a *App) Bookmark(ctx context.Context, artifactID string) error {
	return a.visit(ctx, guard.Path("/artifacts/:id", artifactID), func(ctx context.Context, p guard.Params) error {
		on, err := a.catalog.ToggleBookmark(ctx, id(p))
		if err != nil {
			return err
		}
		if on {
			printlnFn("Bookmarked")
		} else {
			printlnFn("Bookmark removed")
		}
		return nil
	})
}

func (a *App) MarkRead(ctx context.Context, artifactID string) error {
	return a.visit(ctx, guard.Path("/artifacts/:id", artifactID), func(ctx context.Context, p guard.Params) error {
		if err := a.catalog.MarkRead(ctx, id(p)); err != nil {
			return err
		}
		printlnFn("Marked as read")
		return nil
	})
}

func (a *App) ticketsPage(ctx context.Context, _ guard.Params) error {
	tickets, err := a.catalog.Tickets(ctx)
	if err != nil {
		return err
	}

	a.title("Tickets")
	a.ticketTable(tickets)
	a.hint("tickets <id>, buy <id>")
	return nil
}

func (a *App) ticketTable(tickets []models.Ticket) {
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		temple := t.TempleID.String()
		if t.Temple != nil {
			temple = t.Temple.Title
		}
		rows = append(rows, []string{t.TicketID.String(), t.Title, temple, price(t.Price)})
	}
	a.table([]string{"ID", "TICKET", "TEMPLE", "PRICE"}, rows)
}

func (a *App) ticketPage(ctx context.Context, p guard.Params) error {
	t, err := a.catalog.Ticket(ctx, id(p))
	if err != nil {
		return err
	}

	a.title("Ticket " + t.TicketID.String())
	temple := ""
	if t.Temple != nil {
		temple = t.Temple.Title
	}
	a.fields(
		"Title", t.Title,
		"Temple", temple,
		"Description", t.Description,
		"Price", price(t.Price),
	)
	return nil
}

// Buy walks through a ticket purchase.
func (a *App) Buy(ctx context.Context, ticketID string) error {
	return a.visit(ctx, guard.Path("/tickets/:id", ticketID), func(ctx context.Context, p guard.Params) error {
		if err := a.ticketPage(ctx, p); err != nil {
			return err
		}

		qty, err := getSimpleText(a.reader, "Quantity [1]", a.out)
		if err != nil {
			return err
		}
		quantity := 1
		if qty != "" {
			if quantity, err = strconv.Atoi(qty); err != nil {
				quantity = 0
			}
		}

		today := time.Now().Format(time.DateOnly)
		date, err := getSimpleText(a.reader, "Visit date (YYYY-MM-DD) ["+today+"]", a.out)
		if err != nil {
			return err
		}
		if date == "" {
			date = today
		}

		if !confirm(a.reader, fmt.Sprintf("Buy %d ticket(s) for %s?", quantity, date), a.out) {
			return errCancelled
		}

		tx, err := a.catalog.Purchase(ctx, services.PurchaseInput{TicketID: p["id"], Quantity: quantity, ValidDate: date})
		if err != nil {
			return err
		}

		printlnFn("Purchase complete")
		if tx != nil {
			a.fields(
				"Transaction", tx.TransactionID.String(),
				"Status", tx.Status,
				"Total", price(tx.TotalAmount),
			)
		}
		a.hint("my-tickets to see your tickets")
		return nil
	})
}

func (a *App) ownedTicketsPage(ctx context.Context, _ guard.Params) error {
	owned, err := a.catalog.OwnedTickets(ctx)
	if err != nil {
		return err
	}

	a.title("My tickets")
	rows := make([][]string, 0, len(owned))
	for _, o := range owned {
		title := ""
		if o.Ticket != nil {
			title = o.Ticket.Title
		}
		rows = append(rows, []string{o.OwnedTicketID.String(), title, o.ValidDate, o.UsageStatus})
	}
	a.table([]string{"ID", "TICKET", "DATE", "STATUS"}, rows)
	return nil
}

func (a *App) ownedTicketPage(ctx context.Context, p guard.Params) error {
	o, err := a.catalog.OwnedTicket(ctx, id(p))
	if err != nil {
		return err
	}

	a.title("My ticket " + o.OwnedTicketID.String())
	title, temple := "", ""
	if o.Ticket != nil {
		title = o.Ticket.Title
		if o.Ticket.Temple != nil {
			temple = o.Ticket.Temple.Title
		}
	}
	a.fields(
		"Ticket", title,
		"Temple", temple,
		"Visit date", o.ValidDate,
		"Status", o.UsageStatus,
		"Code", o.UniqueCode,
	)
	return nil
}

func (a *App) scanPage(ctx context.Context, _ guard.Params) error {
	a.title("Scan an artifact")

	path, err := getSimpleText(a.reader, "Photo file (JPEG, PNG or WebP)", a.out)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Recognising…")
	pred, err := a.scan.Scan(ctx, path)
	if err != nil {
		return err
	}

	a.fields(
		"Artifact", pred.Name,
		"Confidence", percent(pred.Confidence),
		"About", pred.Description,
	)
	return nil
}
