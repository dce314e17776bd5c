package models

import "errors"

// Token is an opaque bearer token; the empty string means absent.
type Token string

// Credentials identify an existing account. Either Username or Email is set.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type NewAccount struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the server's acknowledgement of a registration.
type Account struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenPair struct {
	Access  Token `json:"access"`
	Refresh Token `json:"refresh"`
}

func (p TokenPair) Validate() error {
	if p.Access == "" {
		return errors.New("access token is empty")
	}
	if p.Refresh == "" {
		return errors.New("refresh token is empty")
	}
	return nil
}
