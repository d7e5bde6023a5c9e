package transform

import "codeberg.org/stylize/server/internal/usage"

const usageStatsHeader = "X-Usage-Stats"

// upload constraints applied before the quota gate
type UploadLimits struct {
	MaxBytes int64
	Dir      string
}

// body returned when the client asks for JSON instead of raw bytes
type TransformResponse struct {
	Success          bool              `json:"success"`
	TransformedImage string            `json:"transformedImage"` // data URL
	Style            string            `json:"style"`
	Usage            *usage.UsageStats `json:"usage"`
}

type StyleInfo struct {
	Name string `json:"name"`
}

type StylesResponse struct {
	Success bool        `json:"success"`
	Default string      `json:"default"`
	Styles  []StyleInfo `json:"styles"`
}
