package models

import (
	"strings"

	identity "electoral/internal/identity/models"
	dErrors "electoral/pkg/domain-errors"
)

// LoginRequest accepts a voter ID, email or phone number as Login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Login = strings.TrimSpace(r.Login)
	if r.Login == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "login and password are required")
	}
	if len(r.Login) > 255 || len(r.Password) > 72 {
		return dErrors.New(dErrors.CodeValidation, "login or password too long")
	}
	return nil
}

type LoginResult struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresIn   int64                 `json:"expires_in"`
	User        *identity.ProfileView `json:"user"`
}
