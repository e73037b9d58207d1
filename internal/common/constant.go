package common

// Header names used on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Storage keys of the persisted session record.
//
// TokenKey lives in the transient scope; the others in the durable scope.
const (
	TokenKey       = "token"
	UserKey        = "user"
	RolesKey       = "roles"
	PermissionsKey = "permissions"
)

// SessionKeys lists every persisted session key, transient first.
var SessionKeys = []string{TokenKey, UserKey, RolesKey, PermissionsKey}
