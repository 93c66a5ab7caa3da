// Package models defines the data the Artefacto client exchanges with the
// backend and keeps in its local store.
package models

// PlaceholderUsername is shown when a session exists but no profile was
// cached.
const PlaceholderUsername = "User"

// UserProfile is the display data of the signed-in user. It is a cache of
// what the server returned and never decides access; Role lives in the
// token store.
type UserProfile struct {
	ID             ID     `json:"userID,omitempty"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Role           Role   `json:"role"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// PlaceholderProfile is used when the session was restored without a cached
// profile.
func PlaceholderProfile(role Role) *UserProfile {
	return &UserProfile{Username: PlaceholderUsername, Role: role}
}

// Clone returns a copy so snapshots never share a profile with their source.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
