package main

import (
	"fmt"
	"os"

	"codeberg.org/stylize/server/internal/config"
	"codeberg.org/stylize/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	flags := config.ParseMonitorFlags(os.Args[1:])
	client := tui.NewUsageClient(flags.Endpoint, flags.Token)

	app := tui.NewApp(tui.Options{
		Endpoint: flags.Endpoint,
		Interval: flags.Interval,
		NoColor:  flags.NoColor,
		Fetch:    client.ListUsage,
		Reset:    client.ResetUsage,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running usage monitor: %v\n", err)
		os.Exit(1)
	}
}
