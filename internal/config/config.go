// Package config provides YAML-based configuration loading for the game,
// the networked client and the relay.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

// Config contains all configuration for the game and its network surfaces.
type Config struct {
	Playfield PlayfieldConfig `yaml:"playfield"`
	Ball      BallConfig      `yaml:"ball"`
	Paddle    PaddleConfig    `yaml:"paddle"`
	Controls  ControlsConfig  `yaml:"controls"`
	Loop      LoopConfig      `yaml:"loop"`
	Render    RenderConfig    `yaml:"render"`
	Network   NetworkConfig   `yaml:"network"`
	Relay     RelayConfig     `yaml:"relay"`
}

// PlayfieldConfig defines the logical canvas size.
type PlayfieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BallConfig defines the canonical ball.
type BallConfig struct {
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"` // Initial |dx| and |dy|
}

// PaddleConfig defines paddle geometry and the per-press step.
type PaddleConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Inset  float64 `yaml:"inset"`
	Step   float64 `yaml:"step"`
}

// KeySet is the up/down keys for one paddle.
type KeySet struct {
	Up   []string `yaml:"up"`
	Down []string `yaml:"down"`
}

// ControlsConfig defines the key bindings.
type ControlsConfig struct {
	Left   KeySet   `yaml:"left"`
	Right  KeySet   `yaml:"right"`
	Toggle []string `yaml:"toggle"`
	Quit   []string `yaml:"quit"`
}

// LoopConfig defines the animation tick.
type LoopConfig struct {
	TickRate int `yaml:"tick_rate"` // Ticks per second
}

// RenderConfig defines how logical units map onto terminal cells.
type RenderConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// NetworkConfig defines the networked client.
type NetworkConfig struct {
	ServerURL string        `yaml:"server_url"`
	Room      string        `yaml:"room"`
	WriteWait time.Duration `yaml:"write_wait"`
	PongWait  time.Duration `yaml:"pong_wait"`
	SendQueue int           `yaml:"send_queue"`
}

// RelayConfig defines the websocket relay.
type RelayConfig struct {
	Addr          string        `yaml:"addr"`
	Path          string        `yaml:"path"`
	RoomTimeout   time.Duration `yaml:"room_timeout"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
	SessionBuffer int           `yaml:"session_buffer"`
	DBPath        string        `yaml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Playfield: PlayfieldConfig{Width: 800, Height: 600},
		Ball:      BallConfig{Radius: 10, Speed: 4},
		Paddle:    PaddleConfig{Width: 20, Height: 100, Inset: 10, Step: 100},
		Controls: ControlsConfig{
			Left:   KeySet{Up: []string{"w"}, Down: []string{"s"}},
			Right:  KeySet{Up: []string{"up"}, Down: []string{"down"}},
			Toggle: []string{" ", "p"},
			Quit:   []string{"q", "ctrl+c"},
		},
		Loop:   LoopConfig{TickRate: 60},
		Render: RenderConfig{CellWidth: 10, CellHeight: 20},
		Network: NetworkConfig{
			ServerURL: "ws://localhost:8080/ws",
			Room:      "lobby",
			WriteWait: 10 * time.Second,
			PongWait:  60 * time.Second,
			SendQueue: 64,
		},
		Relay: RelayConfig{
			Addr:          ":8080",
			Path:          "/ws",
			RoomTimeout:   10 * time.Minute,
			CleanupPeriod: 30 * time.Second,
			SessionBuffer: 64,
			DBPath:        "~/.pingpong/relay.db",
		},
	}
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	switch {
	case c.Playfield.Width <= 0 || c.Playfield.Height <= 0:
		return errors.New("config: playfield size must be positive")
	case c.Ball.Radius <= 0:
		return errors.New("config: ball radius must be positive")
	case c.Ball.Speed <= 0:
		return errors.New("config: ball speed must be positive")
	case c.Paddle.Width <= 0 || c.Paddle.Height <= 0:
		return errors.New("config: paddle size must be positive")
	case c.Paddle.Height > c.Playfield.Height:
		return fmt.Errorf("config: paddle height %v exceeds playfield height %v", c.Paddle.Height, c.Playfield.Height)
	case c.Paddle.Step <= 0:
		return errors.New("config: paddle step must be positive")
	case c.Loop.TickRate <= 0:
		return errors.New("config: tick rate must be positive")
	case c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0:
		return errors.New("config: render cell size must be positive")
	}
	return nil
}

// Settings converts the geometry sections into engine settings.
func (c Config) Settings() pong.Settings {
	return pong.Settings{
		Width:        c.Playfield.Width,
		Height:       c.Playfield.Height,
		BallRadius:   c.Ball.Radius,
		BallSpeed:    c.Ball.Speed,
		PaddleWidth:  c.Paddle.Width,
		PaddleHeight: c.Paddle.Height,
		PaddleInset:  c.Paddle.Inset,
		PaddleStep:   c.Paddle.Step,
	}
}

// TickInterval returns the duration of one animation tick.
func (c LoopConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// LocalControls binds the left key set to paddle 0 and the right key set
// to paddle 1.
func (c ControlsConfig) LocalControls() pong.Controls {
	ctl := pong.Controls{}
	ctl.Bind(0, pong.Up, c.Left.Up...)
	ctl.Bind(0, pong.Down, c.Left.Down...)
	ctl.Bind(1, pong.Up, c.Right.Up...)
	ctl.Bind(1, pong.Down, c.Right.Down...)
	return ctl
}

// NetworkedControls binds both key sets to the paddle of side.
func (c ControlsConfig) NetworkedControls(side pong.Side) pong.Controls {
	ctl := pong.Controls{}
	i := side.Index()
	ctl.Bind(i, pong.Up, c.Left.Up...)
	ctl.Bind(i, pong.Up, c.Right.Up...)
	ctl.Bind(i, pong.Down, c.Left.Down...)
	ctl.Bind(i, pong.Down, c.Right.Down...)
	return ctl
}
