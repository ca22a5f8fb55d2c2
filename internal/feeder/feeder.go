// Package feeder builds the metro feeder overlay: routes and stops split by
// geometry type, coloured by line, with walking catchments around stops.
package feeder

import (
	"math"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

const (
	DefaultDiameterKm = 3.0
	DefaultSteps      = 36
	defaultColour     = "#ffffff"
)

var lineColours = map[string]string{
	"Purple": "#5c0253",
	"Green":  "#488f31",
}

// Layers holds one dataset split by geometry type. Input order is preserved
// inside each layer.
type Layers struct {
	Routes []atlas.Feature
	Stops  []atlas.Feature
	Other  []atlas.Feature
}

func Split(features []atlas.Feature) Layers {
	var l Layers
	for _, f := range features {
		switch f.Geometry.(type) {
		case orb.LineString, orb.MultiLineString:
			l.Routes = append(l.Routes, f)
		case orb.Point, orb.MultiPoint:
			l.Stops = append(l.Stops, f)
		default:
			l.Other = append(l.Other, f)
		}
	}
	return l
}

// Colour returns the display colour for a metro line reference.
func Colour(ref string) string {
	if c, ok := lineColours[ref]; ok {
		return c
	}
	return defaultColour
}

// Styled returns copies of features with a "stroke" (lines) or "fill" property
// derived from their "ref".
func Styled(features []atlas.Feature, key string) []atlas.Feature {
	out := make([]atlas.Feature, len(features))
	for i, f := range features {
		props := f.Properties.Clone()
		if props == nil {
			props = geojson.Properties{}
		}
		props[key] = Colour(props.MustString("ref", ""))
		f.Properties = props
		out[i] = f
	}
	return out
}

// Catchments builds one circle per stop. A stop that sits on a route vertex
// gets a circle pushed half a diameter to the right of the direction of
// travel, so circles line up alongside the line; other stops are centred on
// themselves.
func Catchments(routes, stops []atlas.Feature, diameterKm float64, steps int) []atlas.Feature {
	if diameterKm <= 0 {
		diameterKm = DefaultDiameterKm
	}
	if steps < 3 {
		steps = DefaultSteps
	}
	radius := diameterKm * 1000 / 2

	out := make([]atlas.Feature, 0, len(stops))
	for _, s := range stops {
		pt, ok := s.Geometry.(orb.Point)
		if !ok {
			continue
		}

		center := pt
		ref := s.Properties.MustString("ref", "")
		if route, bearing, found := routeBearing(routes, pt); found {
			center = geo.PointAtBearingAndDistance(pt, math.Mod(bearing+90+360, 360), radius)
			ref = route.Properties.MustString("ref", ref)
		}

		out = append(out, atlas.Feature{
			Name:     s.Name,
			Geometry: Circle(center, radius, steps),
			Properties: geojson.Properties{
				"ref":  ref,
				"stop": s.Name,
				"fill": Colour(ref),
			},
		})
	}
	return out
}

// Circle approximates a geodesic circle with a closed polygon ring.
func Circle(center orb.Point, radiusMeters float64, steps int) orb.Polygon {
	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		bearing := 360 * float64(i) / float64(steps)
		ring = append(ring, geo.PointAtBearingAndDistance(center, bearing, radiusMeters))
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// RhumbBearing is the constant bearing in degrees, 0 to 360 clockwise from
// north, of the loxodrome from a to b.
func RhumbBearing(a, b orb.Point) float64 {
	lat1, lat2 := deg2rad(a.Lat()), deg2rad(b.Lat())
	dLon := deg2rad(b.Lon() - a.Lon())
	if math.Abs(dLon) > math.Pi {
		if dLon > 0 {
			dLon -= 2 * math.Pi
		} else {
			dLon += 2 * math.Pi
		}
	}
	dPsi := math.Log(math.Tan(math.Pi/4+lat2/2) / math.Tan(math.Pi/4+lat1/2))
	return math.Mod(rad2deg(math.Atan2(dLon, dPsi))+360, 360)
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 { return r * 180 / math.Pi }

// routeBearing finds the first route with a vertex exactly at pt and returns
// the rhumb bearing of the segment leaving it (or arriving, at the last vertex).
func routeBearing(routes []atlas.Feature, pt orb.Point) (atlas.Feature, float64, bool) {
	for _, r := range routes {
		for _, ls := range lines(r.Geometry) {
			for i, c := range ls {
				if !c.Equal(pt) {
					continue
				}
				switch {
				case i+1 < len(ls):
					return r, RhumbBearing(ls[i], ls[i+1]), true
				case i > 0:
					return r, RhumbBearing(ls[i-1], ls[i]), true
				}
			}
		}
	}
	return atlas.Feature{}, 0, false
}

func lines(g orb.Geometry) []orb.LineString {
	switch v := g.(type) {
	case orb.LineString:
		return []orb.LineString{v}
	case orb.MultiLineString:
		return v
	}
	return nil
}
