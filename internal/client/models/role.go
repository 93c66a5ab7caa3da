package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Role is the user's authorization tier. The backend is inconsistent about
// how it sends it (1, "1", true), so it is decoded once here and the rest of
// the client only compares Role values.
type Role int

const (
	RoleRegular Role = iota
	RoleAdministrator
)

func (r Role) String() string {
	if r == RoleAdministrator {
		return "administrator"
	}
	return "regular"
}

// Code is the persisted and wire form: "0" or "1".
func (r Role) Code() string {
	if r == RoleAdministrator {
		return "1"
	}
	return "0"
}

// ParseRole decodes a stored or textual role. Anything unrecognised is
// RoleRegular.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "admin", "administrator":
		return RoleAdministrator
	}
	return RoleRegular
}

func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(r.Code()), nil
}

// UnmarshalJSON never fails: numbers, numeric strings and booleans are
// understood, everything else (including null) is RoleRegular.
func (r *Role) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			*r = RoleRegular
			return nil
		}
		*r = ParseRole(s)
		return nil
	}

	if n, err := strconv.ParseFloat(string(b), 64); err == nil {
		*r = RoleRegular
		if n == 1 {
			*r = RoleAdministrator
		}
		return nil
	}

	*r = ParseRole(string(b))
	return nil
}
