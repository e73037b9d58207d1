package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONFieldNames(t *testing.T) {
	raw := `{"id":"u1","name":"Ana","email":"ana@plasticos.example","active":true,
		"createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-02-01T00:00:00Z",
		"roles":["admin"],"permissions":["invoices:read","invoices:write"]}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.True(t, u.Active)
	assert.Equal(t, "2025-01-01T00:00:00Z", u.CreatedAt)
	assert.Equal(t, []string{"admin"}, u.Roles)
	assert.Equal(t, []string{"invoices:read", "invoices:write"}, u.Permissions)
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{ID: "u1", Roles: []string{"admin"}, Permissions: []string{"p"}}
	c := u.Clone()
	c.Roles[0] = "viewer"
	c.Permissions = append(c.Permissions, "q")

	assert.Equal(t, "admin", u.Roles[0])
	assert.Equal(t, []string{"p"}, u.Permissions)

	var nilUser *User
	assert.Nil(t, nilUser.Clone())
}
