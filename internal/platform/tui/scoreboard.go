package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vmarchenko/brickwave/internal/storage"
)

const maxScoreboardRows = 50

var scoreboardTitle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("6")).
	Bold(true).
	Padding(0, 1)

// ScoreboardModel lists the best recorded rounds.
type ScoreboardModel struct {
	table table.Model
	help  help.Model
	keys  KeyMap
	back  bool
	err   error
}

// NewScoreboard loads the top rounds from the store. A nil store yields
// an empty board rather than an error.
func NewScoreboard(store *storage.Store, keys KeyMap) ScoreboardModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Round", Width: 6},
		{Title: "Coins", Width: 6},
		{Title: "Time", Width: 6},
		{Title: "Outcome", Width: 10},
		{Title: "Played", Width: 17},
	}

	var (
		rows []table.Row
		err  error
	)
	if store != nil {
		var records []storage.RoundRecord
		records, err = store.TopRounds(maxScoreboardRows)
		for i, r := range records {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Round),
				fmt.Sprintf("%d", r.Coins),
				formatDuration(r.DurationMs),
				r.Outcome,
				r.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("6"))
	t.SetStyles(styles)

	return ScoreboardModel{
		table: t,
		help:  help.New(),
		keys:  keys,
		err:   err,
	}
}

// Back reports whether the user asked to leave the scoreboard.
func (m ScoreboardModel) Back() bool { return m.back }

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd { return nil }

// Update handles scoreboard navigation.
func (m ScoreboardModel) Update(msg tea.Msg) (ScoreboardModel, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(kmsg, m.keys.Back), key.Matches(kmsg, m.keys.Scores), key.Matches(kmsg, m.keys.Pause):
			m.back = true
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table with a title and help footer.
func (m ScoreboardModel) View() string {
	title := scoreboardTitle.Render("Top Rounds")
	if m.err != nil {
		return title + "\n\n  could not load scores: " + m.err.Error()
	}
	if len(m.table.Rows()) == 0 {
		return title + "\n\n  no rounds recorded yet\n\n" + m.help.View(m.keys)
	}
	return title + "\n" + m.table.View() + "\n" + m.help.View(m.keys)
}
