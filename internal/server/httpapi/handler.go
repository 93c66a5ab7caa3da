// Package httpapi serves the Artefacto REST API over chi.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/logging"
	"github.com/dmitrijs2005/artefacto/internal/server/catalog"
	"github.com/dmitrijs2005/artefacto/internal/server/config"
	"github.com/dmitrijs2005/artefacto/internal/server/users"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	users    *users.Service
	catalog  *catalog.Store
	secret   []byte
	shape    string
	validate *validator.Validate
	logger   logging.Logger
}

func NewHandler(us *users.Service, store *catalog.Store, secret []byte, shape string, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	if shape != config.ShapeFlat {
		shape = config.ShapeEnveloped
	}
	return &Handler{
		users:    us,
		catalog:  store,
		secret:   secret,
		shape:    shape,
		validate: newValidator(),
		logger:   logger,
	}
}

// check validates v and answers 400 when it fails.
func (h *Handler) check(w http.ResponseWriter, v any) bool {
	if err := h.validate.Struct(v); err != nil {
		writeInvalid(w, fieldErrors(err))
		return false
	}
	return true
}

// fail maps a service error to a response. what names the resource for
// not-found answers.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	switch {
	case errors.Is(err, errBadID):
		writeError(w, http.StatusBadRequest, "Invalid "+what+" id")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "Email is already registered")
	case errors.Is(err, catalog.ErrUnknownTemple),
		errors.Is(err, catalog.ErrUnknownTicket),
		errors.Is(err, catalog.ErrPastDate),
		errors.Is(err, catalog.ErrBadDate),
		errors.Is(err, catalog.ErrBadQuantity),
		errors.Is(err, users.ErrCurrentPasswordRequired),
		errors.Is(err, users.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
