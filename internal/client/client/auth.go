package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
)

// RegisterRequest is the registration body.
type RegisterRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	const op = "Login"

	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}

	resp, err := c.send(ctx, call{
		op:          op,
		method:      http.MethodPost,
		path:        []string{"auth", "login"},
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		var e *Error
		if errors.As(err, &e) && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden) {
			e.Kind = KindInvalidCredentials
		}
		return nil, err
	}

	payload, err := decodeAuth(resp, true)
	if err != nil {
		return nil, malformed(op, err)
	}
	return payload, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthPayload, error) {
	const op = "Register"

	body, err := jsonBody(req)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}

	resp, err := c.send(ctx, call{
		op:          op,
		method:      http.MethodPost,
		path:        []string{"auth", "register"},
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	payload, err := decodeAuth(resp, true)
	if err != nil {
		return nil, malformed(op, err)
	}
	return payload, nil
}

// UpdateProfile sends fields as a multipart form, optionally with a new
// profile picture. The server may answer in either auth layout.
func (c *HTTPClient) UpdateProfile(ctx context.Context, fields map[string]string, picture *FilePart) (*models.UserProfile, error) {
	const op = "UpdateProfile"

	var files []FilePart
	if picture != nil {
		p := *picture
		if p.Field == "" {
			p.Field = "profilePicture"
		}
		files = append(files, p)
	}

	body, contentType, err := multipartBody(fields, files...)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}

	resp, err := c.send(ctx, call{
		op:            op,
		method:        http.MethodPut,
		path:          []string{"auth", "profile"},
		body:          body,
		contentType:   contentType,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}

	payload, err := decodeAuth(resp, false)
	if err != nil {
		return nil, malformed(op, err)
	}
	return &payload.Profile, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	_, err := c.send(ctx, call{
		op:            "DeleteAccount",
		method:        http.MethodDelete,
		path:          []string{"auth", "profile"},
		authenticated: true,
	})
	return err
}
