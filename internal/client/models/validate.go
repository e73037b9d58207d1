package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var errNil = errors.New("nil value")

// Validate checks the fields the console relies on. Only the id is
// required; email is a display string with no format rule.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("user: %w", errNil)
	}
	return validate.Struct(u)
}

// Validate checks that the login response carries a token and a valid user.
func (r *LoginResponse) Validate() error {
	if r == nil {
		return fmt.Errorf("login response: %w", errNil)
	}
	return validate.Struct(r)
}
