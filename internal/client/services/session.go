package services

import (
	"context"
	"errors"

	"github.com/plasticoslc/console/internal/client/client"
	"github.com/plasticoslc/console/internal/logging"
)

// Session is the part of session.Store the services need.
type Session interface {
	Token() (string, error)
	Logout(ctx context.Context)
}

// handleAuthError ends the session when the API rejected its token, so the
// console stops presenting a login the server no longer honors.
func handleAuthError(ctx context.Context, s Session, log logging.Logger, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		log.Warn(ctx, "token rejected by api, logging out")
		s.Logout(ctx)
	}
	return err
}
