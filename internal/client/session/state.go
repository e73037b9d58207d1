package session

import (
	"github.com/plasticoslc/console/internal/client/models"
)

// Phase is the position of a Store in its lifecycle.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. User is a copy owned by the caller.
type State struct {
	User      *models.User
	IsLoading bool
	Phase     Phase
}

// IsAuthenticated reports whether a user is logged in.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}
