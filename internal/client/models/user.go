// Package models defines the client-side data shapes exchanged with the
// PlasticosLC API and cached in local storage.
package models

import "slices"

// User is the authenticated account as returned by POST /auth/login.
//
// Email and the timestamps are kept as the strings the API sends; only the
// id is required.
type User struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Active      bool     `json:"active"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Clone returns a deep copy so callers cannot mutate session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = slices.Clone(u.Roles)
	c.Permissions = slices.Clone(u.Permissions)
	return &c
}
