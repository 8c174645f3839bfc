package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/shouta0715/ping-pong-game/internal/config"
	"github.com/shouta0715/ping-pong-game/internal/core"
	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Lines below the frame: the message line and the help bar.
const chromeRows = 2

// view holds what both models need to draw a frame.
type view struct {
	base   Frame // Configured cell size
	frame  Frame // Cell size fitted to the terminal
	fieldW float64
	fieldH float64
	screen *core.Screen
	keys   KeyMap
	help   help.Model
	width  int
	height int
}

func newView(cfg config.Config, networked bool) view {
	frame := Frame{CellW: cfg.Render.CellWidth, CellH: cfg.Render.CellHeight}
	w, h := frame.ScreenSize(cfg.Playfield.Width, cfg.Playfield.Height)
	return view{
		base:   frame,
		frame:  frame,
		fieldW: cfg.Playfield.Width,
		fieldH: cfg.Playfield.Height,
		screen: core.NewScreen(w, h),
		keys:   NewKeyMap(cfg.Controls, networked),
		help:   help.New(),
	}
}

// resize refits the frame to the terminal.
func (v *view) resize(msg tea.WindowSizeMsg) {
	v.width = msg.Width
	v.height = msg.Height
	v.help.Width = msg.Width

	v.frame = v.base.Fit(v.fieldW, v.fieldH, msg.Width, msg.Height-chromeRows)
	w, h := v.frame.ScreenSize(v.fieldW, v.fieldH)
	v.screen = core.NewScreen(w, h)
}

// tooSmall reports whether the terminal cannot fit the frame. Before the
// first WindowSizeMsg the size is unknown and the frame is drawn anyway.
func (v view) tooSmall() bool {
	if v.width == 0 && v.height == 0 {
		return false
	}
	return v.width < v.screen.Width() || v.height < v.screen.Height()+chromeRows
}

func (v view) render(snap pong.Snapshot, status, message string) string {
	if v.tooSmall() {
		return alertStyle.Render(fmt.Sprintf(
			"Terminal too small: need %dx%d, have %dx%d",
			v.screen.Width(), v.screen.Height()+chromeRows, v.width, v.height,
		))
	}

	v.frame.Draw(v.screen, snap, status)

	var b strings.Builder
	b.WriteString(RenderScreen(v.screen))
	b.WriteString("\n")
	if message != "" {
		b.WriteString(statusStyle.Render(message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(v.help.View(v.keys)))
	return b.String()
}

// LocalModel runs local mode: one engine owning both paddles, driven by
// the tick loop and the keyboard.
type LocalModel struct {
	engine   *pong.Engine
	view     view
	interval time.Duration
	logger   *log.Logger
	message  string
	quitting bool
}

// NewLocalModel creates a local-mode model. A nil logger discards output.
func NewLocalModel(cfg config.Config, logger *log.Logger) LocalModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	engine := pong.NewEngine(cfg.Settings(), pong.Local())
	engine.SetControls(cfg.Controls.LocalControls())

	return LocalModel{
		engine:   engine,
		view:     newView(cfg, false),
		interval: cfg.Loop.TickInterval(),
		logger:   logger,
		message:  "Press space to serve",
	}
}

// Engine returns the model's engine.
func (m LocalModel) Engine() *pong.Engine {
	return m.engine
}

// Init starts the tick loop.
func (m LocalModel) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages and updates the model state.
func (m LocalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.view.resize(msg)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m LocalModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.view.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.view.keys.Help):
		m.view.help.ShowAll = !m.view.help.ShowAll
		return m, nil
	case key.Matches(msg, m.view.keys.Toggle):
		m.engine.SetPlaying(!m.engine.Playing())
		m.message = ""
		return m, nil
	}

	m.engine.Press(msg.String())
	return m, nil
}

func (m LocalModel) handleTick() (tea.Model, tea.Cmd) {
	ev := m.engine.Advance()
	if ev.Kind == pong.EventGoal {
		score := m.engine.Score()
		m.logger.Info("goal", "winner", string(ev.Winner), "left", score[0], "right", score[1])
		m.message = fmt.Sprintf("Point to the %s side. Press space to serve", ev.Winner)
	}
	return m, tickCmd(m.interval)
}

// View renders the current state to a string for display.
func (m LocalModel) View() string {
	if m.quitting {
		return ""
	}
	return m.view.render(m.engine.Snapshot(), "local", m.message)
}

// RunLocal starts local mode in the current terminal.
func RunLocal(cfg config.Config, logger *log.Logger) error {
	p := tea.NewProgram(
		NewLocalModel(cfg, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
