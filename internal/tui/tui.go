package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultInterval = 15 * time.Second
	minTableHeight  = 5
	chromeHeight    = 9
)

var columns = []table.Column{
	{Title: "User", Width: 32},
	{Title: "Used", Width: 8},
	{Title: "Left", Width: 6},
	{Title: "Last reset", Width: 20},
}

func NewApp(opts Options) *Model {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	fetch := opts.Fetch
	if fetch == nil {
		fetch = func(context.Context) (map[string]UserUsage, error) {
			return nil, errors.New("missing fetch function")
		}
	}

	reset := opts.Reset
	if reset == nil {
		reset = func(context.Context, string) (*UserUsage, error) {
			return nil, errors.New("missing reset function")
		}
	}

	st := defaultStyles(opts.NoColor)

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	t.SetStyles(st.table)

	return &Model{
		endpoint: opts.Endpoint,
		interval: interval,
		fetch:    fetch,
		reset:    reset,
		fetching: true,
		table:    t,
		styles:   st,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(fetchCmd(m.fetch), pollCmd(m.interval))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(minTableHeight, msg.Height-chromeHeight))
		return m, nil

	case pollTickMsg:
		cmds := []tea.Cmd{pollCmd(m.interval)}
		if !m.fetching {
			m.fetching = true
			cmds = append(cmds, fetchCmd(m.fetch))
		}

		return m, tea.Batch(cmds...)

	case fetchResultMsg:
		m.fetching = false
		m.lastFetchDuration = msg.duration

		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}

		// latest snapshot wins
		m.lastError = ""
		m.lastSuccessAt = msg.at
		m.users = msg.users
		m.table.SetRows(buildRows(msg.users))
		return m, nil

	case resetResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("reset of %s failed: %v", msg.userID, msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("reset %s", msg.userID)
		m.fetching = true
		return m, fetchCmd(m.fetch)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.pendingReset != "" {
		switch key {
		case "y", "Y":
			userID := m.pendingReset
			m.pendingReset = ""
			m.status = fmt.Sprintf("resetting %s...", userID)
			return m, resetCmd(m.reset, userID)
		case "ctrl+c":
			return m, tea.Quit
		default:
			m.pendingReset = ""
			m.status = "reset cancelled"
			return m, nil
		}
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		if m.fetching {
			return m, nil
		}

		m.fetching = true
		return m, fetchCmd(m.fetch)

	case "x":
		if row := m.table.SelectedRow(); len(row) > 0 {
			m.pendingReset = row[0]
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("stylize usage monitor"))
	b.WriteString("\n")
	b.WriteString(m.styles.info.Render(m.summaryLine()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.border.Render(m.table.View()))
	b.WriteString("\n")

	switch {
	case m.pendingReset != "":
		b.WriteString(m.styles.warn.Render(fmt.Sprintf("reset quota for %s? (y/n)", m.pendingReset)))
	case m.lastError != "":
		b.WriteString(m.styles.error.Render("error: " + m.lastError))
	case m.status != "":
		b.WriteString(m.styles.info.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("↑/↓ select • r refresh • x reset user • q quit"))

	view := b.String()
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}

	return view
}

func (m *Model) summaryLine() string {
	if m.users == nil {
		if m.fetching {
			return fmt.Sprintf("loading from %s...", m.endpoint)
		}

		return fmt.Sprintf("no data from %s", m.endpoint)
	}

	exhausted := 0
	for _, u := range m.users {
		if u.TransformationsRemaining == 0 {
			exhausted++
		}
	}

	return fmt.Sprintf("%d users • %d at quota • updated %s (%s) • every %s",
		len(m.users),
		exhausted,
		m.lastSuccessAt.Format("15:04:05"),
		m.lastFetchDuration.Round(time.Millisecond),
		m.interval,
	)
}

// heaviest users first, then by uid for a stable order
func buildRows(users map[string]UserUsage) []table.Row {
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := users[ids[i]], users[ids[j]]
		if a.TransformationsUsed != b.TransformationsUsed {
			return a.TransformationsUsed > b.TransformationsUsed
		}

		return ids[i] < ids[j]
	})

	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		u := users[id]
		rows = append(rows, table.Row{
			id,
			fmt.Sprintf("%d/%d", u.TransformationsUsed, u.MaxTransformations),
			fmt.Sprintf("%d", u.TransformationsRemaining),
			formatReset(u.LastReset),
		})
	}

	return rows
}

func formatReset(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format("2006-01-02 15:04")
}

func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollTickMsg{at: t}
	})
}
