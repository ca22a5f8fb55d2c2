package render

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Projector maps WGS84 coordinates into a pixel box using Web Mercator,
// keeping the aspect ratio and centring the bound.
type Projector struct {
	minX, maxY float64
	scale      float64
	offX, offY float64
}

// Fit builds a projector showing b inside a width x height box with pad
// pixels of margin on each side.
func Fit(b orb.Bound, width, height, pad float64) Projector {
	lo := project.WGS84.ToMercator(b.Min)
	hi := project.WGS84.ToMercator(b.Max)

	spanX, spanY := hi.X()-lo.X(), hi.Y()-lo.Y()
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	innerW, innerH := math.Max(width-2*pad, 1), math.Max(height-2*pad, 1)
	scale := math.Min(innerW/spanX, innerH/spanY)

	return Projector{
		minX:  lo.X(),
		maxY:  hi.Y(),
		scale: scale,
		offX:  pad + (innerW-spanX*scale)/2,
		offY:  pad + (innerH-spanY*scale)/2,
	}
}

// Point returns pixel coordinates with y growing downwards.
func (p Projector) Point(pt orb.Point) (float64, float64) {
	m := project.WGS84.ToMercator(pt)
	return p.offX + (m.X()-p.minX)*p.scale, p.offY + (p.maxY-m.Y())*p.scale
}

// Scale reports pixels per Mercator metre.
func (p Projector) Scale() float64 { return p.scale }
