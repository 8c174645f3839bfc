package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shouta0715/ping-pong-game/internal/storage"
)

// RoomsKeyMap defines key bindings for the audit log screen.
type RoomsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k RoomsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k RoomsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Quit}}
}

// DefaultRoomsKeyMap returns the default bindings.
func DefaultRoomsKeyMap() RoomsKeyMap {
	return RoomsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RoomsModel lists closed relay rooms from the audit log.
type RoomsModel struct {
	rooms    []storage.RoomRecord
	totals   storage.RelayTotals
	table    table.Model
	help     help.Model
	keys     RoomsKeyMap
	width    int
	height   int
	quitting bool
}

// NewRoomsModel creates the audit log screen.
func NewRoomsModel(rooms []storage.RoomRecord, totals storage.RelayTotals, width, height int) RoomsModel {
	m := RoomsModel{
		rooms:  rooms,
		totals: totals,
		help:   help.New(),
		keys:   DefaultRoomsKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	return m
}

func (m *RoomsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Room", Width: 8},
		{Title: "Closed", Width: 14},
		{Title: "Length", Width: 8},
		{Title: "Sides", Width: 6},
		{Title: "Relayed", Width: 8},
		{Title: "Dropped", Width: 8},
		{Title: "Handoffs", Width: 9},
		{Title: "Goals", Width: 6},
		{Title: "Reason", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m RoomsModel) rows() []table.Row {
	rows := make([]table.Row, len(m.rooms))
	for i, r := range m.rooms {
		rows[i] = table.Row{
			r.Code,
			r.ClosedAt.Local().Format("Jan 02 15:04"),
			r.Duration().Round(time.Second).String(),
			r.SidesLabel(),
			fmt.Sprintf("%d", r.FramesRelayed),
			fmt.Sprintf("%d", r.FramesDropped),
			fmt.Sprintf("%d", r.Overs),
			fmt.Sprintf("%d", r.Scores),
			r.Reason,
		}
	}
	return rows
}

// Init initializes the model.
func (m RoomsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the audit log screen.
func (m RoomsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the audit log.
func (m RoomsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render("RELAY ROOMS"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"%d rooms, %d frames relayed, %d dropped, %d handoffs, %d goals",
		m.totals.Rooms, m.totals.FramesRelayed, m.totals.FramesDropped, m.totals.Handoffs, m.totals.Goals,
	)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.rooms) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 4)
		b.WriteString(boxStyle.Render(emptyStyle.Render("No rooms recorded yet.")))
	} else {
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunRooms shows the audit log until the user quits.
func RunRooms(store *storage.Store, limit, width, height int) error {
	rooms, err := store.RecentRooms(limit)
	if err != nil {
		return err
	}
	totals, err := store.Totals()
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		NewRoomsModel(rooms, totals, width, height),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
