package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 250, 20, 100)

	if r.Right() != 30 {
		t.Errorf("Right() = %v, expected 30", r.Right())
	}
	if r.Bottom() != 350 {
		t.Errorf("Bottom() = %v, expected 350", r.Bottom())
	}
}

func TestRectSpansY(t *testing.T) {
	r := NewRect(10, 250, 20, 100)

	tests := []struct {
		name     string
		y        float64
		expected bool
	}{
		{"inside", 300, true},
		{"top edge (exclusive)", 250, false},
		{"bottom edge (exclusive)", 350, false},
		{"just inside top", 250.5, true},
		{"above", 100, false},
		{"below", 400, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.SpansY(tc.y); got != tc.expected {
				t.Errorf("SpansY(%v) = %v, expected %v", tc.y, got, tc.expected)
			}
		})
	}
}

func TestCircleEdges(t *testing.T) {
	c := Circle{X: 400, Y: 300, R: 10}

	if c.Left() != 390 || c.Right() != 410 {
		t.Errorf("horizontal edges = (%v, %v), expected (390, 410)", c.Left(), c.Right())
	}
	if c.Top() != 290 || c.Bottom() != 310 {
		t.Errorf("vertical edges = (%v, %v), expected (290, 310)", c.Top(), c.Bottom())
	}
}

func TestHitsFromRight(t *testing.T) {
	paddle := NewRect(10, 250, 20, 100)

	tests := []struct {
		name     string
		ball     Circle
		expected bool
	}{
		{"overlapping face", Circle{X: 35, Y: 300, R: 10}, true},
		{"touching face (no overlap)", Circle{X: 40, Y: 300, R: 10}, false},
		{"clear of face", Circle{X: 100, Y: 300, R: 10}, false},
		{"overlapping but above", Circle{X: 35, Y: 245, R: 10}, false},
		{"overlapping but below", Circle{X: 35, Y: 355, R: 10}, false},
		{"inside paddle", Circle{X: 20, Y: 300, R: 10}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HitsFromRight(tc.ball, paddle); got != tc.expected {
				t.Errorf("HitsFromRight() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestHitsFromLeft(t *testing.T) {
	paddle := NewRect(770, 250, 20, 100)

	tests := []struct {
		name     string
		ball     Circle
		expected bool
	}{
		{"overlapping face", Circle{X: 765, Y: 300, R: 10}, true},
		{"touching face (no overlap)", Circle{X: 760, Y: 300, R: 10}, false},
		{"clear of face", Circle{X: 400, Y: 300, R: 10}, false},
		{"overlapping but outside vertically", Circle{X: 765, Y: 360, R: 10}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HitsFromLeft(tc.ball, paddle); got != tc.expected {
				t.Errorf("HitsFromLeft() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{150, 0, 500, 150},
		{-50, 0, 500, 0},
		{600, 0, 500, 500},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
