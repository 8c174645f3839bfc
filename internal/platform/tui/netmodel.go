package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/shouta0715/ping-pong-game/internal/config"
	"github.com/shouta0715/ping-pong-game/internal/games/pong"
	"github.com/shouta0715/ping-pong-game/internal/netplay"
)

// Conn is a bidirectional frame channel to the other client. Both the
// websocket client and the hub's in-process link satisfy it.
type Conn interface {
	netplay.Transport
	Inbound() <-chan []byte
	Done() <-chan struct{}
	Close() error
}

// frameMsg carries one inbound frame into the update loop.
type frameMsg []byte

// disconnectedMsg is sent when the connection ends.
type disconnectedMsg struct{}

// waitForFrame returns a command that waits for the next inbound frame.
// Frames are applied in Update, on the same goroutine as ticks and keys.
func waitForFrame(c Conn) tea.Cmd {
	return func() tea.Msg {
		select {
		case f, ok := <-c.Inbound():
			if !ok {
				return disconnectedMsg{}
			}
			return frameMsg(f)
		case <-c.Done():
			return disconnectedMsg{}
		}
	}
}

// NetModel runs one side of a networked match.
type NetModel struct {
	peer         *netplay.Peer
	conn         Conn
	room         string
	view         view
	interval     time.Duration
	logger       *log.Logger
	disconnected bool
	quitting     bool
}

// NewNetModel creates a networked model for side over conn. A nil logger
// discards output.
func NewNetModel(cfg config.Config, room string, side pong.Side, conn Conn, logger *log.Logger) NetModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	engine := pong.NewEngine(cfg.Settings(), pong.Networked(side))
	engine.SetControls(cfg.Controls.NetworkedControls(side))

	return NetModel{
		peer:     netplay.NewPeer(side, engine, conn, logger),
		conn:     conn,
		room:     room,
		view:     newView(cfg, true),
		interval: cfg.Loop.TickInterval(),
		logger:   logger,
	}
}

// Peer returns the model's protocol peer.
func (m NetModel) Peer() *netplay.Peer {
	return m.peer
}

// Init starts the tick loop and the inbound frame reader.
func (m NetModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), waitForFrame(m.conn))
}

// Update handles messages and updates the model state.
func (m NetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.view.resize(msg)
		return m, nil

	case TickMsg:
		if !m.disconnected {
			m.peer.Tick()
		}
		return m, tickCmd(m.interval)

	case frameMsg:
		m.peer.Handle(msg)
		return m, waitForFrame(m.conn)

	case disconnectedMsg:
		m.disconnected = true
		m.peer.Engine().SetPlaying(false)
		m.logger.Warn("connection lost", "room", m.room)
		return m, nil
	}

	return m, nil
}

func (m NetModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.view.keys.Quit):
		m.quitting = true
		m.conn.Close()
		return m, tea.Quit
	case key.Matches(msg, m.view.keys.Help):
		m.view.help.ShowAll = !m.view.help.ShowAll
		return m, nil
	}
	if m.disconnected {
		return m, nil
	}
	if key.Matches(msg, m.view.keys.Toggle) {
		m.peer.TogglePlaying()
		return m, nil
	}

	m.peer.Press(msg.String())
	return m, nil
}

// View renders the current state to a string for display.
func (m NetModel) View() string {
	if m.quitting {
		return ""
	}

	var message string
	switch {
	case m.disconnected:
		message = "Connection lost. Press q to quit"
	case m.peer.Phase() == netplay.PhaseIdle:
		message = "Ball is on the other side"
	case m.peer.Phase() == netplay.PhaseActivePaused:
		message = "Press space to play"
	}

	status := fmt.Sprintf("room %s", m.room)
	return m.view.render(m.peer.Engine().Snapshot(), status, message)
}

// RunNet starts a networked match in the current terminal. conn is closed
// when the program exits.
func RunNet(cfg config.Config, room string, side pong.Side, conn Conn, logger *log.Logger) error {
	defer conn.Close()

	p := tea.NewProgram(
		NewNetModel(cfg, room, side, conn, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
