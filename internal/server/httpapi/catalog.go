package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/server/models"
)

// Temples

func templeFields(f form, t *models.Temple) {
	f.set(&t.Title, "title")
	f.set(&t.Description, "description")
	f.set(&t.ImageURL, "imageUrl")
	f.set(&t.LocationURL, "locationUrl")
	f.set(&t.FunfactTitle, "funfactTitle")
	f.set(&t.FunfactDescription, "funfactDescription")
}

func (h *Handler) listTemples(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "temples", h.catalog.Temples(r.Context()))
}

func (h *Handler) getTemple(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Temple", err)
		return
	}
	t, err := h.catalog.Temple(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Temple", err)
		return
	}
	writeData(w, http.StatusOK, "temple", t)
}

func (h *Handler) createTemple(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	var t models.Temple
	templeFields(f, &t)
	if t.Title == "" {
		writeInvalid(w, map[string][]string{"title": {"title is required"}})
		return
	}

	writeData(w, http.StatusCreated, "temple", h.catalog.CreateTemple(r.Context(), t))
}

func (h *Handler) updateTemple(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Temple", err)
		return
	}
	f, err := readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	t, err := h.catalog.UpdateTemple(r.Context(), id, func(t *models.Temple) { templeFields(f, t) })
	if err != nil {
		h.fail(w, r, "Temple", err)
		return
	}
	writeData(w, http.StatusOK, "temple", t)
}

func (h *Handler) deleteTemple(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "Temple", h.catalog.DeleteTemple)
}

// Artifacts

func artifactFields(f form, a *models.Artifact, bad map[string][]string) {
	f.setInt(&a.TempleID, "templeID", bad)
	f.set(&a.Title, "title")
	f.set(&a.Description, "description")
	f.set(&a.ImageURL, "imageUrl")
	f.set(&a.LocationURL, "locationUrl")
	f.set(&a.FunfactTitle, "funfactTitle")
	f.set(&a.FunfactDescription, "funfactDescription")
	f.set(&a.AdditionalInfo, "additionalInfo")
	f.set(&a.DetailPeriod, "detailPeriod")
	f.set(&a.DetailMaterial, "detailMaterial")
	f.set(&a.DetailSize, "detailSize")
	f.set(&a.DetailStyle, "detailStyle")
}

func (h *Handler) listArtifacts(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "artifacts", h.catalog.Artifacts(r.Context()))
}

func (h *Handler) getArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	a, err := h.catalog.Artifact(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	writeData(w, http.StatusOK, "artifact", a)
}

func (h *Handler) createArtifact(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	var a models.Artifact
	bad := map[string][]string{}
	artifactFields(f, &a, bad)
	if a.Title == "" {
		bad["title"] = append(bad["title"], "title is required")
	}
	if a.TempleID == 0 && len(bad["templeID"]) == 0 {
		bad["templeID"] = append(bad["templeID"], "templeID is required")
	}
	if len(bad) > 0 {
		writeInvalid(w, bad)
		return
	}

	created, err := h.catalog.CreateArtifact(r.Context(), a)
	if err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	writeData(w, http.StatusCreated, "artifact", created)
}

func (h *Handler) updateArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	f, err := readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	bad := map[string][]string{}
	artifactFields(f, &models.Artifact{}, bad)
	if len(bad) > 0 {
		writeInvalid(w, bad)
		return
	}

	a, err := h.catalog.UpdateArtifact(r.Context(), id, func(a *models.Artifact) { artifactFields(f, a, bad) })
	if err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	writeData(w, http.StatusOK, "artifact", a)
}

func (h *Handler) deleteArtifact(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "Artifact", h.catalog.DeleteArtifact)
}

func (h *Handler) bookmarkArtifact(w http.ResponseWriter, r *http.Request) {
	h.markArtifact(w, r, h.catalog.Bookmark, "Artifact bookmarked")
}

func (h *Handler) readArtifact(w http.ResponseWriter, r *http.Request) {
	h.markArtifact(w, r, h.catalog.MarkRead, "Artifact marked as read")
}

func (h *Handler) markArtifact(w http.ResponseWriter, r *http.Request, mark func(ctx context.Context, userID, id int64) error, done string) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	if err := mark(r.Context(), claimsFrom(r.Context()).UserID, id); err != nil {
		h.fail(w, r, "Artifact", err)
		return
	}
	writeMessage(w, http.StatusOK, done)
}

// Tickets

type ticketRequest struct {
	TempleID    flexInt  `json:"templeID"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
}

func (req ticketRequest) apply(t *models.Ticket) {
	if req.TempleID != 0 {
		t.TempleID = int64(req.TempleID)
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.ImageURL != nil {
		t.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
}

func (h *Handler) listTickets(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "tickets", h.catalog.Tickets(r.Context()))
}

func (h *Handler) getTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	t, err := h.catalog.Ticket(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	writeData(w, http.StatusOK, "ticket", t)
}

func (h *Handler) createTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !h.check(w, req) {
		return
	}

	var t models.Ticket
	req.apply(&t)
	bad := map[string][]string{}
	if t.TempleID == 0 {
		bad["templeID"] = []string{"templeID is required"}
	}
	if t.Title == "" {
		bad["title"] = []string{"title is required"}
	}
	if len(bad) > 0 {
		writeInvalid(w, bad)
		return
	}

	created, err := h.catalog.CreateTicket(r.Context(), t)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	writeData(w, http.StatusCreated, "ticket", created)
}

func (h *Handler) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	var req ticketRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !h.check(w, req) {
		return
	}

	t, err := h.catalog.UpdateTicket(r.Context(), id, req.apply)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	writeData(w, http.StatusOK, "ticket", t)
}

func (h *Handler) deleteTicket(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, "Ticket", h.catalog.DeleteTicket)
}

// Transactions and owned tickets

type purchaseRequest struct {
	TicketID       flexInt `json:"ticketID" validate:"gt=0"`
	TicketQuantity int     `json:"ticketQuantity" validate:"min=1"`
	ValidDate      string  `json:"validDate" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !h.check(w, req) {
		return
	}

	userID := claimsFrom(r.Context()).UserID
	tx, err := h.catalog.Purchase(r.Context(), userID, int64(req.TicketID), req.TicketQuantity, req.ValidDate)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}

	h.logger.Info(r.Context(), "purchase", "user_id", userID, "transaction_id", tx.TransactionID, "quantity", tx.TicketQuantity)
	writeData(w, http.StatusCreated, "transaction", tx)
}

// scope returns the user whose purchases are visible: everyone's for an
// administrator, otherwise the caller's own.
func scope(r *http.Request) int64 {
	c := claimsFrom(r.Context())
	if c.Role == models.RoleAdministrator {
		return 0
	}
	return c.UserID
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.Transactions(r.Context(), scope(r))
	for i := range list {
		list[i].User, _ = h.users.Get(r.Context(), list[i].UserID)
	}
	writeData(w, http.StatusOK, "transactions", list)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Transaction", err)
		return
	}
	tx, err := h.catalog.Transaction(r.Context(), scope(r), id)
	if err != nil {
		h.fail(w, r, "Transaction", err)
		return
	}
	tx.User, _ = h.users.Get(r.Context(), tx.UserID)
	writeData(w, http.StatusOK, "transaction", tx)
}

func (h *Handler) listOwnedTickets(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "ownedTickets", h.catalog.OwnedTickets(r.Context(), claimsFrom(r.Context()).UserID))
}

func (h *Handler) getOwnedTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	o, err := h.catalog.OwnedTicket(r.Context(), claimsFrom(r.Context()).UserID, id)
	if err != nil {
		h.fail(w, r, "Ticket", err)
		return
	}
	writeData(w, http.StatusOK, "ownedTicket", o)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, what string, del func(ctx context.Context, id int64) error) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, what, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.fail(w, r, what, err)
		return
	}
	writeMessage(w, http.StatusOK, what+" deleted")
}
