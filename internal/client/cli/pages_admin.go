package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/artefacto/internal/client/guard"
	"github.com/dmitrijs2005/artefacto/internal/client/models"
	"github.com/dmitrijs2005/artefacto/internal/client/services"
)

// formField is one prompt of an admin form; key is the wire field name.
type formField struct {
	key, label string
}

var (
	templeForm = []formField{
		{"title", "Title"},
		{"description", "Description"},
		{"locationUrl", "Location URL"},
		{"funfactTitle", "Fun fact title"},
		{"funfactDescription", "Fun fact"},
	}
	artifactForm = []formField{
		{"templeID", "Temple ID"},
		{"title", "Title"},
		{"description", "Description"},
		{"detailPeriod", "Period"},
		{"detailMaterial", "Material"},
		{"detailSize", "Size"},
		{"detailStyle", "Style"},
		{"additionalInfo", "Additional info"},
		{"locationUrl", "Location URL"},
		{"funfactTitle", "Fun fact title"},
		{"funfactDescription", "Fun fact"},
	}
	ticketForm = []formField{
		{"templeID", "Temple ID"},
		{"title", "Title"},
		{"description", "Description"},
		{"price", "Price"},
	}
)

// ask fills a form. When editing, blank answers keep the current value.
func (a *App) ask(form []formField, editing bool) (map[string]string, error) {
	if editing {
		fmt.Fprintln(a.out, "(leave blank to keep the current value)")
	}
	values := make(map[string]string, len(form))
	for _, f := range form {
		v, err := getSimpleText(a.reader, f.label, a.out)
		if err != nil {
			return nil, err
		}
		values[f.key] = v
	}
	return values, nil
}

func (a *App) adminTemplesPage(ctx context.Context, _ guard.Params) error {
	temples, err := a.catalog.Temples(ctx)
	if err != nil {
		return err
	}

	a.title("Manage temples")
	rows := make([][]string, 0, len(temples))
	for _, t := range temples {
		rows = append(rows, []string{t.TempleID.String(), t.Title, truncate(t.LocationURL, 40)})
	}
	a.table([]string{"ID", "TITLE", "LOCATION"}, rows)
	a.hint("new temple, edit temple <id>, delete temple <id>")
	return nil
}

func (a *App) adminTempleForm(ctx context.Context, p guard.Params) error {
	editing := p["id"] != ""
	if editing {
		a.title("Edit temple " + p["id"])
	} else {
		a.title("New temple")
	}

	values, err := a.ask(templeForm, editing)
	if err != nil {
		return err
	}

	var t *models.Temple
	if editing {
		t, err = a.admin.UpdateTemple(ctx, id(p), values)
	} else {
		t, err = a.admin.CreateTemple(ctx, values)
	}
	if err != nil {
		return err
	}

	saved(t != nil, "Temple")
	return a.Open(ctx, "/admin/temples")
}

func (a *App) adminArtifactsPage(ctx context.Context, _ guard.Params) error {
	artifacts, err := a.catalog.Artifacts(ctx)
	if err != nil {
		return err
	}

	a.title("Manage artifacts")
	rows := make([][]string, 0, len(artifacts))
	for _, x := range artifacts {
		rows = append(rows, []string{x.ArtifactID.String(), x.Title, x.TempleID.String()})
	}
	a.table([]string{"ID", "TITLE", "TEMPLE"}, rows)
	a.hint("new artifact, edit artifact <id>, delete artifact <id>")
	return nil
}

func (a *App) adminArtifactForm(ctx context.Context, p guard.Params) error {
	editing := p["id"] != ""
	if editing {
		a.title("Edit artifact " + p["id"])
	} else {
		a.title("New artifact")
	}

	values, err := a.ask(artifactForm, editing)
	if err != nil {
		return err
	}

	var x *models.Artifact
	if editing {
		x, err = a.admin.UpdateArtifact(ctx, id(p), values)
	} else {
		x, err = a.admin.CreateArtifact(ctx, values)
	}
	if err != nil {
		return err
	}

	saved(x != nil, "Artifact")
	return a.Open(ctx, "/admin/artifacts")
}

func (a *App) adminTicketsPage(ctx context.Context, _ guard.Params) error {
	tickets, err := a.catalog.Tickets(ctx)
	if err != nil {
		return err
	}

	a.title("Manage tickets")
	a.ticketTable(tickets)
	a.hint("new ticket, edit ticket <id>, delete ticket <id>")
	return nil
}

func (a *App) adminTicketForm(ctx context.Context, p guard.Params) error {
	editing := p["id"] != ""

	var t models.Ticket
	if editing {
		a.title("Edit ticket " + p["id"])
		current, err := a.catalog.Ticket(ctx, id(p))
		if err != nil {
			return err
		}
		t = *current
		t.Temple = nil
	} else {
		a.title("New ticket")
	}

	values, err := a.ask(ticketForm, editing)
	if err != nil {
		return err
	}
	if err := applyTicket(&t, values); err != nil {
		return err
	}

	var out *models.Ticket
	if editing {
		out, err = a.admin.UpdateTicket(ctx, id(p), t)
	} else {
		out, err = a.admin.CreateTicket(ctx, t)
	}
	if err != nil {
		return err
	}

	saved(out != nil, "Ticket")
	return a.Open(ctx, "/admin/tickets")
}

func applyTicket(t *models.Ticket, values map[string]string) error {
	if v := values["templeID"]; v != "" {
		t.TempleID = models.ID(v)
	}
	if v := values["title"]; v != "" {
		t.Title = v
	}
	if v := values["description"]; v != "" {
		t.Description = v
	}
	if v := values["price"]; v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			return &services.ValidationError{Fields: map[string]string{"price": fmt.Sprintf("price %q is not a valid amount", v)}}
		}
		t.Price = p
	}
	return nil
}

func saved(echoed bool, what string) {
	if echoed {
		printlnFn(what + " saved")
		return
	}
	printlnFn(what + " saved (the server did not return it)")
}

func (a *App) adminTransactionsPage(ctx context.Context, _ guard.Params) error {
	txs, err := a.admin.Transactions(ctx)
	if err != nil {
		return err
	}

	a.title("Transactions")
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		user := ""
		if tx.User != nil {
			user = tx.User.Username
		}
		rows = append(rows, []string{
			tx.TransactionID.String(),
			user,
			strconv.Itoa(tx.TicketQuantity),
			price(tx.TotalAmount),
			tx.Status,
			tx.ValidDate,
		})
	}
	a.table([]string{"ID", "USER", "QTY", "TOTAL", "STATUS", "DATE"}, rows)
	return nil
}

var adminLists = map[string]string{
	"temple":   "/admin/temples",
	"artifact": "/admin/artifacts",
	"ticket":   "/admin/tickets",
}

// Delete removes a temple, artifact or ticket after confirmation.
func (a *App) Delete(ctx context.Context, kind, rawID string) error {
	list, ok := adminLists[kind]
	if !ok {
		return &services.ValidationError{Fields: map[string]string{"kind": fmt.Sprintf("unknown kind %q: use temple, artifact or ticket", kind)}}
	}

	return a.visit(ctx, list, func(ctx context.Context, _ guard.Params) error {
		if !confirm(a.reader, fmt.Sprintf("Delete %s %s?", kind, rawID), a.out) {
			return errCancelled
		}

		target := models.ID(rawID)
		var err error
		switch kind {
		case "temple":
			err = a.admin.DeleteTemple(ctx, target)
		case "artifact":
			err = a.admin.DeleteArtifact(ctx, target)
		case "ticket":
			err = a.admin.DeleteTicket(ctx, target)
		}
		if err != nil {
			return err
		}

		printlnFn(fmt.Sprintf("Deleted %s %s", kind, rawID))
		return a.Open(ctx, list)
	})
}
