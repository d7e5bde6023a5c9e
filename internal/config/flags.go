package config

import (
	"flag"
	"os"
	"time"
)

// parses CLI flags for the usage monitor
func ParseMonitorFlags(args []string) MonitorFlags {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)

	endpoint := fs.String("endpoint", envOr("STYLIZE_API_ENDPOINT", "http://localhost:5000"), "base URL of the stylize server")
	token := fs.String("token", os.Getenv("STYLIZE_ADMIN_TOKEN"), "admin bearer token")
	interval := fs.Duration("interval", 15*time.Second, "poll interval")
	noColor := fs.Bool("no-color", false, "disable colors")
	fs.Parse(args) //nolint:errcheck,gosec // ExitOnError flag set handles errors

	return MonitorFlags{
		Endpoint: *endpoint,
		Token:    *token,
		Interval: *interval,
		NoColor:  *noColor,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
