package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		t.Fatalf("Parse(embedded) error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults differ from Default():\n%+v\n%+v", cfg, Default())
	}
}

func TestDefaultSettingsMatchEngine(t *testing.T) {
	if got := Default().Settings(); got != pong.DefaultSettings() {
		t.Errorf("Settings() = %+v, expected %+v", got, pong.DefaultSettings())
	}
}

func TestParsePartialOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("ball:\n  speed: 6\nnetwork:\n  room: finals\n  write_wait: 2s\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Ball.Speed != 6 {
		t.Errorf("Ball.Speed = %v, expected 6", cfg.Ball.Speed)
	}
	if cfg.Ball.Radius != 10 {
		t.Errorf("Ball.Radius = %v, expected default 10", cfg.Ball.Radius)
	}
	if cfg.Network.Room != "finals" {
		t.Errorf("Network.Room = %q, expected finals", cfg.Network.Room)
	}
	if cfg.Network.WriteWait != 2*time.Second {
		t.Errorf("Network.WriteWait = %v, expected 2s", cfg.Network.WriteWait)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.Playfield.Width = 0 }, false},
		{"negative radius", func(c *Config) { c.Ball.Radius = -1 }, false},
		{"zero speed", func(c *Config) { c.Ball.Speed = 0 }, false},
		{"paddle taller than field", func(c *Config) { c.Paddle.Height = 601 }, false},
		{"paddle as tall as field", func(c *Config) { c.Paddle.Height = 600 }, true},
		{"zero step", func(c *Config) { c.Paddle.Step = 0 }, false},
		{"zero tick rate", func(c *Config) { c.Loop.TickRate = 0 }, false},
		{"zero cell", func(c *Config) { c.Render.CellHeight = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("loop:\n  tick_rate: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Loop.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.Loop.TickRate)
	}
	if got := cfg.Loop.TickInterval(); got != time.Second/30 {
		t.Errorf("TickInterval() = %v, expected %v", got, time.Second/30)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("paddle:\n  height: 9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid custom config")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("expected embedded defaults when no files exist")
	}

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "pingpong.yaml"), []byte("network:\n  room: local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load("")
	if cfg.Network.Room != "local" {
		t.Errorf("Room = %q, expected local project config", cfg.Network.Room)
	}

	user := Default()
	user.Network.Room = "user"
	if err := Write(UserPath(), user); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	cfg, _ = Load("")
	if cfg.Network.Room != "user" {
		t.Errorf("Room = %q, expected user config to win", cfg.Network.Room)
	}
}

func TestControls(t *testing.T) {
	c := Default().Controls

	local := c.LocalControls()
	if !reflect.DeepEqual(local, pong.LocalControls()) {
		t.Errorf("LocalControls() = %v, expected %v", local, pong.LocalControls())
	}

	net := c.NetworkedControls(pong.SideTwo)
	if !reflect.DeepEqual(net, pong.NetworkedControls(pong.SideTwo)) {
		t.Errorf("NetworkedControls() = %v, expected %v", net, pong.NetworkedControls(pong.SideTwo))
	}
}

func TestInit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := UserPath()

	if err := Init(path, false); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("expected the written file to load as the defaults")
	}

	if err := Init(path, false); !errors.Is(err, ErrExists) {
		t.Errorf("second Init() = %v, expected ErrExists", err)
	}

	if err := os.WriteFile(path, []byte("loop:\n  tick_rate: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("forced Init() error: %v", err)
	}
	cfg, _ = Load(path)
	if cfg.Loop.TickRate != Default().Loop.TickRate {
		t.Errorf("TickRate = %d, expected forced Init to restore the default", cfg.Loop.TickRate)
	}

	if err := Init("", false); err == nil {
		t.Error("expected an error for an empty path")
	}
}
