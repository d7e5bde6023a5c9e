package users

import "codeberg.org/stylize/server/internal/usage"

type UserInfo struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type StatsResponse struct {
	Success bool              `json:"success"`
	User    UserInfo          `json:"user"`
	Usage   *usage.UsageStats `json:"usage"`
}
