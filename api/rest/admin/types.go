package admin

import "codeberg.org/stylize/server/internal/usage"

type UsageListResponse struct {
	Success bool                        `json:"success"`
	Count   int                         `json:"count"`
	Users   map[string]usage.UsageStats `json:"users"`
}

type ResetResponse struct {
	Success bool              `json:"success"`
	UserID  string            `json:"userId"`
	Usage   *usage.UsageStats `json:"usage"`
}
