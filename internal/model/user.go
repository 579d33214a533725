package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthUser is the password-free projection of a User that is safe to
// return to callers and attach to request or connection contexts.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type LoginResult struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}
