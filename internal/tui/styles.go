package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorPurple    = lipgloss.Color("#8524a6")
	colorGreen     = lipgloss.Color("#00FF00")
	colorYellow    = lipgloss.Color("#FFFF00")
	colorRed       = lipgloss.Color("#FF0000")
)

type styles struct {
	title  lipgloss.Style
	info   lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	error  lipgloss.Style
	help   lipgloss.Style
	border lipgloss.Style
	table  table.Styles
}

func defaultStyles(noColor bool) styles {
	border := lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).Padding(0)
	tableStyles := table.DefaultStyles()

	if noColor {
		tableStyles.Header = tableStyles.Header.Bold(true)
		tableStyles.Selected = lipgloss.NewStyle().Bold(true).Reverse(true)

		return styles{
			title:  lipgloss.NewStyle().Bold(true),
			info:   lipgloss.NewStyle(),
			ok:     lipgloss.NewStyle(),
			warn:   lipgloss.NewStyle().Bold(true),
			bad:    lipgloss.NewStyle().Bold(true),
			error:  lipgloss.NewStyle().Bold(true),
			help:   lipgloss.NewStyle(),
			border: border,
			table:  tableStyles,
		}
	}

	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(colorWhite).
		Background(colorPurple).
		Bold(true)

	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(colorWhite).MarginBottom(1),
		info:   lipgloss.NewStyle().Foreground(colorGray).Italic(true),
		ok:     lipgloss.NewStyle().Foreground(colorGreen),
		warn:   lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		bad:    lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		error:  lipgloss.NewStyle().Foreground(colorLightGray).Bold(true),
		help:   lipgloss.NewStyle().Foreground(colorDarkGray).Italic(true).MarginTop(1),
		border: border.BorderForeground(colorGray),
		table:  tableStyles,
	}
}
