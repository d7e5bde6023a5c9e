package auth

import "codeberg.org/stylize/server/internal/auth"

type TestResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    *auth.Identity `json:"user"`
}

type WhoAmIResponse struct {
	Success       bool           `json:"success"`
	Authenticated bool           `json:"authenticated"`
	User          *auth.Identity `json:"user,omitempty"`
}
