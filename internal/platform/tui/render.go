package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shouta0715/ping-pong-game/internal/core"
	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorBall:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorPaddle:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorBorder:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorNet:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Rows above and below the playfield box.
const (
	headerRows = 2
	footerRows = 1
)

// Frame maps the logical playfield onto terminal cells. Each cell covers
// CellW by CellH logical units.
type Frame struct {
	CellW float64
	CellH float64
}

// FieldSize returns the playfield size in cells, excluding the border.
func (f Frame) FieldSize(width, height float64) (cols, rows int) {
	if f.CellW <= 0 || f.CellH <= 0 {
		return 0, 0
	}
	// The epsilon keeps fitted cell sizes from rounding up a column.
	const eps = 1e-9
	return int(math.Ceil(width/f.CellW - eps)), int(math.Ceil(height/f.CellH - eps))
}

// ScreenSize returns the cells needed for a whole frame.
func (f Frame) ScreenSize(width, height float64) (w, h int) {
	cols, rows := f.FieldSize(width, height)
	return cols + 2, rows + 2 + headerRows + footerRows
}

// Fit returns a frame whose cells are large enough for the whole frame to
// fit in termW by termH cells. Cells only grow; a terminal too small for
// even the border keeps f unchanged.
func (f Frame) Fit(width, height float64, termW, termH int) Frame {
	cols := termW - 2
	rows := termH - 2 - headerRows - footerRows
	if cols <= 0 || rows <= 0 {
		return f
	}
	return Frame{
		CellW: max(f.CellW, width/float64(cols)),
		CellH: max(f.CellH, height/float64(rows)),
	}
}

// Draw paints snap onto s: the score readout, the bordered playfield with
// the mode name and the net, the paddles and the ball, and the play/pause control. The ball is
// only drawn while snap.BallVisible. A nil or empty screen draws nothing.
func (f Frame) Draw(s *core.Screen, snap pong.Snapshot, status string) {
	if s.Empty() {
		return
	}
	cols, rows := f.FieldSize(snap.Width, snap.Height)
	if cols == 0 || rows == 0 {
		return
	}
	s.Clear()

	f.drawScores(s, snap, cols)

	ox, oy := 1, headerRows+1
	s.DrawBox(0, headerRows, cols+2, rows+2, core.ColorBorder)
	if snap.Mode != "" {
		s.DrawTextCentered(headerRows, " "+snap.Mode+" ", core.ColorDim)
	}
	s.DrawVLine(ox+cols/2, oy, rows, '┊', core.ColorNet)

	for _, p := range snap.Paddles {
		c0, c1 := f.span(p.X, p.Width, f.CellW, cols)
		r0, r1 := f.span(p.Y, p.Height, f.CellH, rows)
		s.FillRect(ox+c0, oy+r0, ox+c1, oy+r1, '█', core.ColorPaddle)
	}

	if snap.BallVisible {
		col := int(math.Floor(snap.Ball.X / f.CellW))
		row := int(math.Floor(snap.Ball.Y / f.CellH))
		if col >= 0 && col < cols && row >= 0 && row < rows {
			s.Set(ox+col, oy+row, '●', core.ColorBall)
		}
	}

	footer := oy + rows + 1
	control := "[ Play ]"
	if snap.Playing {
		control = "[ Pause ]"
	}
	s.DrawText(1, footer, control, core.ColorDefault)
	if status != "" {
		s.DrawText(cols+1-len([]rune(status)), footer, status, core.ColorDim)
	}
}

// span converts a logical interval to a half-open cell range clipped to limit.
func (f Frame) span(start, length, cell float64, limit int) (int, int) {
	a := int(math.Floor(start / cell))
	b := int(math.Ceil((start + length) / cell))
	return max(a, 0), min(b, limit)
}

func (f Frame) drawScores(s *core.Screen, snap pong.Snapshot, cols int) {
	for i := range snap.Score {
		side := pong.SideOne
		if i == 1 {
			side = pong.SideTwo
		}
		label := fmt.Sprintf("Player %s", side)
		if snap.Side == side {
			label += " (you)"
		}
		score := fmt.Sprintf("%d", snap.Score[i])

		center := 1 + cols/4
		if i == 1 {
			center = 1 + cols*3/4
		}
		s.DrawText(center-len([]rune(label))/2, 0, label, core.ColorDim)
		s.DrawText(center-len(score)/2, 1, score, core.ColorDefault)
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	if s.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
