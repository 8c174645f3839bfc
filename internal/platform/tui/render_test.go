package tui

import (
	"strings"
	"testing"

	"github.com/shouta0715/ping-pong-game/internal/core"
	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

var defaultFrame = Frame{CellW: 10, CellH: 20}

func drawDefault(t *testing.T, snap pong.Snapshot, status string) *core.Screen {
	t.Helper()
	w, h := defaultFrame.ScreenSize(snap.Width, snap.Height)
	s := core.NewScreen(w, h)
	defaultFrame.Draw(s, snap, status)
	return s
}

func runeAt(s *core.Screen, x, y int) rune {
	return s.GetCell(x, y).Rune
}

func rowText(s *core.Screen, y int) string {
	var b strings.Builder
	for x := range s.Width() {
		b.WriteRune(runeAt(s, x, y))
	}
	return b.String()
}

func screenContains(s *core.Screen, r rune) bool {
	for y := range s.Height() {
		if strings.ContainsRune(rowText(s, y), r) {
			return true
		}
	}
	return false
}

func TestScreenSize(t *testing.T) {
	w, h := defaultFrame.ScreenSize(800, 600)
	if w != 82 || h != 35 {
		t.Errorf("expected 82x35, got %dx%d", w, h)
	}

	cols, rows := Frame{}.FieldSize(800, 600)
	if cols != 0 || rows != 0 {
		t.Errorf("expected zero field for zero cells, got %dx%d", cols, rows)
	}
}

func TestDrawPositions(t *testing.T) {
	e := pong.NewEngine(pong.DefaultSettings(), pong.Local())
	s := drawDefault(t, e.Snapshot(), "local")

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"ball", 41, 18, '●'},
		{"left paddle top", 2, 15, '█'},
		{"left paddle bottom", 3, 20, '█'},
		{"below left paddle", 2, 21, ' '},
		{"right paddle top", 78, 15, '█'},
		{"right paddle bottom", 79, 20, '█'},
		{"box corner", 0, 2, '┌'},
		{"box bottom corner", 81, 33, '┘'},
		{"net top", 41, 3, '┊'},
		{"net below ball row", 41, 19, '┊'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runeAt(s, tt.x, tt.y); got != tt.want {
				t.Errorf("expected %q at (%d,%d), got %q", tt.want, tt.x, tt.y, got)
			}
		})
	}
}

func TestDrawHeaderAndFooter(t *testing.T) {
	e := pong.NewEngine(pong.DefaultSettings(), pong.Networked(pong.SideOne))
	s := drawDefault(t, e.Snapshot(), "room abc")

	if !strings.Contains(rowText(s, 0), "Player 1 (you)") {
		t.Errorf("expected own label in header, got %q", rowText(s, 0))
	}
	if !strings.Contains(rowText(s, 0), "Player 2") {
		t.Errorf("expected peer label in header, got %q", rowText(s, 0))
	}
	if strings.Count(rowText(s, 1), "0") != 2 {
		t.Errorf("expected two zero scores, got %q", rowText(s, 1))
	}

	if !strings.Contains(rowText(s, 2), "─ networked ─") {
		t.Errorf("expected mode name on the top border, got %q", rowText(s, 2))
	}
	if runeAt(s, 0, 2) != '┌' || runeAt(s, 81, 2) != '┐' {
		t.Error("expected border corners to survive the mode label")
	}

	footer := rowText(s, 34)
	if !strings.HasPrefix(footer, " [ Play ]") {
		t.Errorf("expected play control in footer, got %q", footer)
	}
	if !strings.HasSuffix(footer, "room abc ") {
		t.Errorf("expected right-aligned status, got %q", footer)
	}

	e.SetPlaying(true)
	s = drawDefault(t, e.Snapshot(), "")
	if !strings.HasPrefix(rowText(s, 34), " [ Pause ]") {
		t.Errorf("expected pause control while playing, got %q", rowText(s, 34))
	}
}

func TestDrawHidesBallWithoutAuthority(t *testing.T) {
	e := pong.NewEngine(pong.DefaultSettings(), pong.Networked(pong.SideTwo))
	s := drawDefault(t, e.Snapshot(), "")

	if screenContains(s, '●') {
		t.Error("expected no ball on the idle side")
	}
	if runeAt(s, 2, 15) == '█' {
		t.Error("expected the peer's paddle not to be drawn")
	}
	if runeAt(s, 79, 15) != '█' {
		t.Error("expected own paddle on the right")
	}
}

func TestDrawEmptyScreen(t *testing.T) {
	snap := pong.NewEngine(pong.DefaultSettings(), pong.Local()).Snapshot()

	defaultFrame.Draw(nil, snap, "")
	defaultFrame.Draw(core.NewScreen(0, 0), snap, "")

	if got := RenderScreen(nil); got != "" {
		t.Errorf("expected empty render for nil screen, got %q", got)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name         string
		termW, termH int
		wantW, wantH int
	}{
		{"large terminal keeps cells", 200, 100, 82, 35},
		{"exact fit", 82, 35, 82, 35},
		{"narrow terminal", 42, 35, 42, 35},
		{"short terminal", 82, 20, 82, 20},
		{"no room keeps frame", 2, 5, 82, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultFrame.Fit(800, 600, tt.termW, tt.termH)
			w, h := f.ScreenSize(800, 600)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}
