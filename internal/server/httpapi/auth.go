package httpapi

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/common"
	"github.com/dmitrijs2005/artefacto/internal/server/config"
	"github.com/dmitrijs2005/artefacto/internal/server/models"
	"github.com/dmitrijs2005/artefacto/internal/server/users"
	"github.com/google/uuid"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username             string `json:"username" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type authBody struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user"`
}

// writeAuth answers in the configured layout: {"data":{token,user}} or
// {token,user}.
func (h *Handler) writeAuth(w http.ResponseWriter, status int, body authBody) {
	if h.shape == config.ShapeFlat {
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, status, envelope{Data: body})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !h.check(w, req) {
		return
	}

	s, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.logger.Info(r.Context(), "login rejected", "email", req.Email)
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.fail(w, r, "User", err)
		return
	}

	h.logger.Info(r.Context(), "login", "user_id", s.User.ID, "role", s.User.Role)
	h.writeAuth(w, http.StatusOK, authBody{Message: "Login successful", Token: s.Token, User: s.User})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !h.check(w, req) {
		return
	}

	s, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "User", err)
		return
	}

	h.logger.Info(r.Context(), "registered", "user_id", s.User.ID)
	h.writeAuth(w, http.StatusCreated, authBody{Message: "Registration successful", Token: s.Token, User: s.User})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), claimsFrom(r.Context()).UserID)
	if err != nil {
		h.fail(w, r, "User", err)
		return
	}
	h.writeAuth(w, http.StatusOK, authBody{User: u})
}

// updateProfile reads a multipart form. The picture itself is not kept;
// only a generated path is recorded.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed form")
		return
	}

	req := struct {
		Email       string `json:"email" validate:"omitempty,email"`
		NewPassword string `json:"newPassword" validate:"omitempty,min=6"`
	}{Email: f.get("email"), NewPassword: f.get("newPassword")}
	if !h.check(w, req) {
		return
	}

	ch := users.ProfileChanges{
		Username:        f.get("username"),
		Email:           req.Email,
		Password:        req.NewPassword,
		CurrentPassword: f.get("currentPassword"),
	}
	if name, ok := f.files["profilePicture"]; ok {
		ch.ProfilePicture = "/uploads/" + uuid.NewString() + strings.ToLower(filepath.Ext(name))
	}

	u, err := h.users.UpdateProfile(r.Context(), claimsFrom(r.Context()).UserID, ch)
	if err != nil {
		h.fail(w, r, "User", err)
		return
	}

	h.writeAuth(w, http.StatusOK, authBody{Message: "Profile updated", User: u})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := claimsFrom(r.Context()).UserID
	if err := h.users.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "User", err)
		return
	}
	h.logger.Info(r.Context(), "account deleted", "user_id", id)
	writeMessage(w, http.StatusOK, "Account deleted")
}
