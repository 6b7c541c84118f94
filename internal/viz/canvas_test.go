package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/particlesim/internal/nbody"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(3, 1)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	if c.Grid[0][0] != brailleBase|0x1|0x80 {
		t.Errorf("unexpected cell 0: %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBase|0x10 {
		t.Errorf("unexpected cell 1: %U", c.Grid[0][1])
	}
	if c.Lit() != 3 {
		t.Errorf("expected 3 lit dots, got %d", c.Lit())
	}

	c.Clear()
	if c.Lit() != 0 {
		t.Errorf("expected empty canvas after clear, got %d", c.Lit())
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l != "⠀⠀⠀" {
			t.Errorf("unexpected line %q", l)
		}
	}
}

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(10, 5)
	nan := float32(math.NaN())

	x := nbody.NewView([]float32{0, 99.9, 50, -1, 100, nan})
	y := nbody.NewView([]float32{0, 49.9, 25, 10, 10, 10})

	if drawn := c.Plot(x, y, 100, 50); drawn != 3 {
		t.Errorf("expected 3 particles drawn, got %d", drawn)
	}

	// (0,0) is the top-left dot and (99.9,49.9) the bottom-right.
	if c.Grid[0][0]&0x1 == 0 {
		t.Error("expected top-left dot set")
	}
	if c.Grid[4][9]&0x80 == 0 {
		t.Error("expected bottom-right dot set")
	}
	if c.Lit() != 3 {
		t.Errorf("expected 3 lit dots, got %d", c.Lit())
	}
}
