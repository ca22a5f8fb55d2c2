package viz

import (
	"strings"

	"github.com/blrviz/blrviz/internal/heat"
	"github.com/blrviz/blrviz/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
)

const brailleBlank = 0x2800

var shades = []rune{'░', '▒', '▓', '█'}

// plate is one colour of a layered braille drawing. Later plates paint over
// earlier ones.
type plate struct {
	canvas *render.Canvas
	colour lipgloss.Color
}

func newPlate(w, h int, colour lipgloss.Color) plate {
	return plate{canvas: render.NewCanvas(w, h), colour: colour}
}

// compose merges plates cell by cell. A cell takes the colour of the topmost
// plate with dots in it; cells without dots fall back to the density grid,
// drawn as shade blocks.
func compose(w, h int, plates []plate, density [][]float64) string {
	var b strings.Builder
	for row := 0; row < h; row++ {
		var run []rune
		runColour := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColour == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColour)).Render(string(run)))
			}
			run = run[:0]
		}

		for col := 0; col < w; col++ {
			var bits rune
			colour := ""
			for _, p := range plates {
				if row >= p.canvas.Height || col >= p.canvas.Width {
					continue
				}
				if dots := p.canvas.Grid[row][col] - brailleBlank; dots != 0 {
					bits |= dots
					colour = string(p.colour)
				}
			}

			ch := rune(brailleBlank) + bits
			if bits == 0 && density != nil {
				if d := density[row][col]; d > 0 {
					ch = shade(d)
					colour = heat.Hex(heat.Ramp(d))
				}
			}

			if colour != runColour {
				flush()
				runColour = colour
			}
			run = append(run, ch)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func shade(d float64) rune {
	idx := int(d * float64(len(shades)))
	if idx >= len(shades) {
		idx = len(shades) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return shades[idx]
}

// densityGrid rasterises a heat surface onto terminal cells, keeping the
// densest heat cell that touches each one.
func densityGrid(s *heat.Surface, proj render.Projector, w, h int) [][]float64 {
	grid := make([][]float64, h)
	for i := range grid {
		grid[i] = make([]float64, w)
	}
	if s == nil {
		return grid
	}

	for _, c := range s.Cells() {
		b := s.Polygon(c).Bound()
		x0, y1 := proj.Point(b.Min)
		x1, y0 := proj.Point(b.Max)

		c0, c1 := clampInt(int(x0)/2, 0, w-1), clampInt(int(x1)/2, 0, w-1)
		r0, r1 := clampInt(int(y0)/4, 0, h-1), clampInt(int(y1)/4, 0, h-1)
		if x1 < 0 || y1 < 0 || int(x0)/2 >= w || int(y0)/4 >= h {
			continue
		}
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if c.Density > grid[row][col] {
					grid[row][col] = c.Density
				}
			}
		}
	}
	return grid
}

// fit builds a projector for a canvas of w x h cells.
func fit(bound orb.Bound, w, h int) render.Projector {
	return render.Fit(bound, float64(w*2), float64(h*4), 2)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
