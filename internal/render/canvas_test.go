package render

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(10, 10)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("clear left pixels behind")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 2)
	c.DrawLine(0, 0, 19, 0)

	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 0) {
			t.Fatalf("pixel %d not set", x)
		}
	}
	if lines := strings.Count(c.String(), "\n"); lines != 2 {
		t.Errorf("expected 2 rows, got %d", lines)
	}
}

func TestCanvasDrawGeometry(t *testing.T) {
	c := NewCanvas(20, 10)
	w, h := c.PixelSize()
	if w != 40 || h != 40 {
		t.Fatalf("unexpected pixel size %dx%d", w, h)
	}

	bound := orb.Bound{Min: orb.Point{77.5, 12.9}, Max: orb.Point{77.6, 13.0}}
	proj := Fit(bound, float64(w), float64(h), 2)

	c.DrawGeometry(orb.LineString{{77.5, 12.9}, {77.6, 13.0}}, proj)

	if !anySet(c, 0, h-8, 8, h) {
		t.Error("line start not drawn near bottom-left")
	}
	if !anySet(c, w-8, 0, w, 8) {
		t.Error("line end not drawn near top-right")
	}
	if anySet(c, 0, 0, 8, 8) {
		t.Error("unexpected pixels in the top-left corner")
	}

	c.Clear()
	c.DrawGeometry(orb.Point{77.55, 12.95}, proj)
	set := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				set++
			}
		}
	}
	if set != 5 {
		t.Errorf("expected a 5-pixel cross, got %d pixels", set)
	}
}

func TestFitKeepsAspect(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{77.0, 12.9}, Max: orb.Point{78.0, 13.0}}
	proj := Fit(bound, 100, 100, 0)

	x0, y0 := proj.Point(bound.Min)
	x1, y1 := proj.Point(bound.Max)
	if x0 > 0.01 || x1 < 99.99 {
		t.Errorf("wide bound should fill the width, got %.2f..%.2f", x0, x1)
	}
	if y0 <= y1 {
		t.Error("y must grow downwards")
	}
	if y0 > 100 || y1 < 0 || (y0-y1) > 20 {
		t.Errorf("unexpected vertical extent %.2f..%.2f", y1, y0)
	}
}

func TestFitDegenerateBound(t *testing.T) {
	pt := orb.Point{77.6, 12.97}
	proj := Fit(pt.Bound(), 100, 50, 5)

	x, y := proj.Point(pt)
	if x < 0 || x > 100 || y < 0 || y > 50 {
		t.Errorf("single point projected outside the box: %.1f,%.1f", x, y)
	}
}

func anySet(c *Canvas, x0, y0, x1, y1 int) bool {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if c.IsSet(x, y) {
				return true
			}
		}
	}
	return false
}
