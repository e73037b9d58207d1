package models

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	Token string `json:"token" validate:"required"`
	User  *User  `json:"user" validate:"required"`
}
