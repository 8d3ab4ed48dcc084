package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vmarchenko/brickwave/internal/config"
	"github.com/vmarchenko/brickwave/internal/events"
	"github.com/vmarchenko/brickwave/internal/foreshadow"
	"github.com/vmarchenko/brickwave/internal/game"
	"github.com/vmarchenko/brickwave/internal/storage"
)

const defaultFPS = 60

// Muter is the optional audio toggle the model drives from the keymap.
type Muter interface {
	SetMuted(muted bool)
}

// Options configure a play model.
type Options struct {
	Config config.Config
	Seed   uint64
	FPS    int
	Width  int // Initial terminal size; refreshed by resize events
	Height int
	Store  *storage.Store
	Sink   foreshadow.Sink
	Muter  Muter
	Logger *log.Logger
}

// Model is the Bubble Tea model that hosts one game. It owns the frame
// clock; the game itself only steps when Advance is called.
type Model struct {
	opts  Options
	g     *game.Game
	input *game.LiveInput
	keys  KeyMap
	help  help.Model

	width, height int
	lastTick      time.Time
	muted         bool
	showScores    bool
	scores        ScoreboardModel
	quitting      bool
}

// NewModel builds a model and its game instance.
func NewModel(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	m := Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	if opts.Width > 0 {
		m.width = opts.Width
	}
	if opts.Height > 0 {
		m.height = opts.Height
	}
	m.newGame(opts.Seed)
	return m
}

// newGame builds a fresh game and wires round persistence.
func (m *Model) newGame(seed uint64) {
	m.input = game.NewLiveInput()
	m.g = game.New(game.Options{
		Config: m.opts.Config,
		Seed:   seed,
		Sink:   m.opts.Sink,
		Input:  m.input,
		Logger: m.opts.Logger,
	})

	recorder := storage.NewRecorder(m.opts.Store)
	g := m.g
	g.Bus().Subscribe(events.KindRoundCompleted, func(ev events.Event) {
		rc, ok := ev.(events.RoundCompleted)
		if !ok {
			return
		}
		snap := g.Session()
		outcome := "completed"
		if rc.Failed {
			outcome = "failed"
		}
		//nolint:errcheck // Best-effort save, play continues regardless
		recorder.Record(storage.RoundRecord{
			Session:       rc.Session.String(),
			Round:         rc.Round,
			Score:         snap.Score,
			Coins:         snap.Coins,
			DurationMs:    rc.DurationMs,
			EntropyBanked: rc.EntropyBanked,
			Outcome:       outcome,
		})
	})
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.g.Quit()
		return m, tea.Quit
	}

	if m.showScores {
		var cmd tea.Cmd
		m.scores, cmd = m.scores.Update(msg)
		if m.scores.Back() {
			m.showScores = false
		}
		return m, cmd
	}

	scene := m.g.Runtime().Scene
	switch {
	case key.Matches(msg, m.keys.Scores):
		if scene == game.ScenePlaying {
			m.g.Pause()
		}
		m.scores = NewScoreboard(m.opts.Store, m.keys)
		m.showScores = true

	case key.Matches(msg, m.keys.Left):
		m.input.SetDir(-1)

	case key.Matches(msg, m.keys.Right):
		m.input.SetDir(1)

	case key.Matches(msg, m.keys.Launch):
		switch scene {
		case game.SceneMenu:
			m.g.StartGameplay()
		case game.ScenePlaying:
			m.input.PressLaunch()
		}

	case key.Matches(msg, m.keys.Pause):
		if m.g.Runtime().Paused {
			m.g.Resume()
		} else {
			m.g.Pause()
		}

	case key.Matches(msg, m.keys.Mute):
		if m.opts.Muter != nil {
			m.muted = !m.muted
			m.opts.Muter.SetMuted(m.muted)
		}

	case key.Matches(msg, m.keys.Restart):
		if scene == game.SceneGameOver {
			m.newGame(uint64(time.Now().UnixNano()))
			m.g.StartGameplay()
		}

	case key.Matches(msg, m.keys.Back):
		if scene == game.SceneGameOver || m.g.Runtime().Paused {
			m.g.Quit()
		}
	}

	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.lastTick.IsZero() {
		m.lastTick = now
	}
	delta := now.Sub(m.lastTick).Seconds()
	m.lastTick = now

	m.g.Advance(delta)
	// Direction keys act as one-frame nudges; terminals report no key-up.
	m.input.SetDir(0)

	return m, tickCmd(m.opts.FPS)
}

// View renders the current scene.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showScores {
		return m.scores.View()
	}

	switch m.g.Runtime().Scene {
	case game.ScenePlaying:
		return m.viewPlaying()
	case game.SceneGameOver:
		return m.viewGameOver()
	}
	return m.viewMenu()
}

func (m Model) viewMenu() string {
	lines := []string{
		"B R I C K W A V E",
		"",
		"space  start",
		"tab    top rounds",
		"q      quit",
	}
	if m.opts.Store != nil {
		if high, err := m.opts.Store.HighScore(); err == nil && high > 0 {
			lines = append(lines, "", fmt.Sprintf("best: %d", high))
		}
	}
	return centered(m.width, m.height, lines...)
}

func (m Model) viewPlaying() string {
	fieldH := m.height - 3
	if fieldH < 4 {
		fieldH = 4
	}

	snap := m.g.Session()
	header := HUD(snap, m.g.ActiveReward())
	field := Playfield(m.g, m.width, fieldH)
	footer := m.help.View(m.keys)

	if m.g.Runtime().Paused {
		return header + "\n" + centered(m.width, fieldH, "paused", "", "p resume   b quit to menu") + "\n" + footer
	}
	if m.g.ServePending() {
		footer = "get ready..."
	}
	return header + "\n" + field + "\n" + footer
}

func (m Model) viewGameOver() string {
	snap := m.g.Session()
	return centered(m.width, m.height,
		"game over",
		"",
		fmt.Sprintf("score %d   coins %d   round %d", snap.Score, snap.Coins, snap.Round),
		"",
		"r restart   tab scores   q quit",
	)
}

// Run starts the Bubble Tea program with a model built from opts.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
