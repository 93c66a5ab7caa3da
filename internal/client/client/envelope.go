package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/client/models"
)

// ResponseShape records which authentication layout the server used.
type ResponseShape int

const (
	ShapeEnveloped ResponseShape = iota + 1 // {"data":{"token":...,"user":{...}}}
	ShapeFlat                               // {"token":...,"user":{...}}
)

func (s ResponseShape) String() string {
	switch s {
	case ShapeEnveloped:
		return "enveloped"
	case ShapeFlat:
		return "flat"
	}
	return "unknown"
}

// AuthPayload is a successful login or registration.
type AuthPayload struct {
	Token   string
	Profile models.UserProfile
	Shape   ResponseShape
}

type authFields struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user"`
}

type authResponse struct {
	authFields
	Data *authFields `json:"data"`
}

var (
	errNoUser  = errors.New("response carries no user")
	errNoToken = errors.New("response carries no token")
)

// decodeAuth tries the enveloped layout first and the flat one second.
// Nothing else is accepted. When needToken is set a missing or blank token
// makes the response malformed.
func decodeAuth(body []byte, needToken bool) (*AuthPayload, error) {
	var r authResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	var (
		fields *authFields
		shape  ResponseShape
	)
	switch {
	case r.Data != nil && r.Data.User != nil:
		fields, shape = r.Data, ShapeEnveloped
	case r.User != nil:
		fields, shape = &r.authFields, ShapeFlat
	default:
		return nil, errNoUser
	}

	if needToken && strings.TrimSpace(fields.Token) == "" {
		return nil, errNoToken
	}

	return &AuthPayload{Token: fields.Token, Profile: *fields.User, Shape: shape}, nil
}

// decodeData extracts data.<key> from the resource envelope.
func decodeData[T any](body []byte, key string) (T, error) {
	var zero T

	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("decode envelope: %w", err)
	}

	raw, ok := env.Data[key]
	if !ok || string(raw) == "null" {
		return zero, fmt.Errorf("envelope has no data.%s", key)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("decode data.%s: %w", key, err)
	}
	return v, nil
}

// serverMessage builds the human explanation from an error body. The
// message field wins; validation details under errors are appended to it.
// A bare error field is used when there is no message.
func serverMessage(body []byte) string {
	var b struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(body, &b) != nil {
		return ""
	}

	if b.Message == "" {
		return b.Error
	}
	if details := joinDetails(b.Errors); details != "" {
		return b.Message + ": " + details
	}
	return b.Message
}

// joinDetails flattens either a list of messages or a field->messages
// object.
func joinDetails(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var list []any
	if json.Unmarshal(raw, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, detailText(item))
		}
		return strings.Join(parts, ", ")
	}

	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		fields := make([]string, 0, len(obj))
		for k := range obj {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		var parts []string
		for _, k := range fields {
			if nested, ok := obj[k].([]any); ok {
				for _, item := range nested {
					parts = append(parts, detailText(item))
				}
				continue
			}
			parts = append(parts, detailText(obj[k]))
		}
		return strings.Join(parts, ", ")
	}

	return ""
}

func detailText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	b, _ := json.Marshal(item)
	return string(b)
}
