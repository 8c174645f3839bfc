package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/shouta0715/ping-pong-game/internal/config"
)

// KeyMap holds the bindings shown in the help bar and matched for the
// play/pause control. Paddle keys are applied through the engine's
// controls; the bindings here describe them.
type KeyMap struct {
	LeftUp    key.Binding
	LeftDown  key.Binding
	RightUp   key.Binding
	RightDown key.Binding
	Toggle    key.Binding
	Help      key.Binding
	Quit      key.Binding

	networked bool
}

// NewKeyMap builds bindings from the configured controls. In networked mode
// both key sets move the one local paddle, so they are shown as a single pair.
func NewKeyMap(c config.ControlsConfig, networked bool) KeyMap {
	k := KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(c.Toggle...),
			key.WithHelp(keyNames(c.Toggle), "play/pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys(c.Quit...),
			key.WithHelp(keyNames(c.Quit), "quit"),
		),
		networked: networked,
	}

	if networked {
		up := append(append([]string{}, c.Left.Up...), c.Right.Up...)
		down := append(append([]string{}, c.Left.Down...), c.Right.Down...)
		k.LeftUp = key.NewBinding(key.WithKeys(up...), key.WithHelp(keyNames(up), "paddle up"))
		k.LeftDown = key.NewBinding(key.WithKeys(down...), key.WithHelp(keyNames(down), "paddle down"))
		return k
	}

	k.LeftUp = key.NewBinding(key.WithKeys(c.Left.Up...), key.WithHelp(keyNames(c.Left.Up), "P1 up"))
	k.LeftDown = key.NewBinding(key.WithKeys(c.Left.Down...), key.WithHelp(keyNames(c.Left.Down), "P1 down"))
	k.RightUp = key.NewBinding(key.WithKeys(c.Right.Up...), key.WithHelp(keyNames(c.Right.Up), "P2 up"))
	k.RightDown = key.NewBinding(key.WithKeys(c.Right.Down...), key.WithHelp(keyNames(c.Right.Down), "P2 down"))
	return k
}

// ShortHelp returns bindings for the compact help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

// FullHelp returns bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	if k.networked {
		return [][]key.Binding{
			{k.LeftUp, k.LeftDown},
			{k.Toggle, k.Help, k.Quit},
		}
	}
	return [][]key.Binding{
		{k.LeftUp, k.LeftDown},
		{k.RightUp, k.RightDown},
		{k.Toggle, k.Help, k.Quit},
	}
}

// keyNames formats keys for the help bar.
func keyNames(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		switch k {
		case " ":
			names[i] = "space"
		case "up":
			names[i] = "↑"
		case "down":
			names[i] = "↓"
		default:
			names[i] = k
		}
	}
	return strings.Join(names, "/")
}
