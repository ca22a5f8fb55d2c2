package render

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set turns on the sub-pixel at (x, y).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawGeometry rasterises points as small crosses, and lines and polygon
// rings as outlines.
func (c *Canvas) DrawGeometry(g orb.Geometry, p Projector) {
	switch v := g.(type) {
	case orb.Point:
		x, y := pixel(p, v)
		c.Set(x, y)
		c.Set(x-1, y)
		c.Set(x+1, y)
		c.Set(x, y-1)
		c.Set(x, y+1)
	case orb.MultiPoint:
		for _, pt := range v {
			c.DrawGeometry(pt, p)
		}
	case orb.LineString:
		c.drawPath(v, p)
	case orb.MultiLineString:
		for _, ls := range v {
			c.drawPath(ls, p)
		}
	case orb.Ring:
		c.drawPath(orb.LineString(v), p)
	case orb.Polygon:
		for _, r := range v {
			c.drawPath(orb.LineString(r), p)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			c.DrawGeometry(poly, p)
		}
	case orb.Collection:
		for _, sub := range v {
			c.DrawGeometry(sub, p)
		}
	}
}

func (c *Canvas) drawPath(ls orb.LineString, p Projector) {
	if len(ls) == 1 {
		x, y := pixel(p, ls[0])
		c.Set(x, y)
		return
	}
	for i := 1; i < len(ls); i++ {
		x0, y0 := pixel(p, ls[i-1])
		x1, y1 := pixel(p, ls[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

func pixel(p Projector, pt orb.Point) (int, int) {
	x, y := p.Point(pt)
	return int(math.Round(x)), int(math.Round(y))
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
