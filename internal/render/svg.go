package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Style holds the default paint for features without their own "stroke",
// "fill" or "fill-opacity" properties.
type Style struct {
	Background  string
	Stroke      string
	StrokeWidth float64
	Fill        string
	FillOpacity float64
	PointRadius float64
}

func DefaultStyle() Style {
	return Style{
		Background:  "#0a0a0a",
		Stroke:      "#4264fb",
		StrokeWidth: 2.5,
		Fill:        "#4264fb",
		FillOpacity: 0.2,
		PointRadius: 4,
	}
}

// CollectionToSVG draws fc inside bound. A zero bound means "fit the
// collection". label, when set, is printed in the top-left corner.
func CollectionToSVG(fc *geojson.FeatureCollection, bound orb.Bound, width, height int, style Style, label string) string {
	if bound.IsZero() {
		bound = collectionBound(fc)
	}
	proj := Fit(bound, float64(width), float64(height), 10)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, style.Background))

	for _, f := range fc.Features {
		stroke := f.Properties.MustString("stroke", style.Stroke)
		fill := f.Properties.MustString("fill", style.Fill)
		opacity := style.FillOpacity
		if v, ok := f.Properties["fill-opacity"].(float64); ok {
			opacity = v
		}
		writeGeometry(&sb, f.Geometry, proj, stroke, fill, opacity, style)
	}

	if label != "" {
		sb.WriteString(fmt.Sprintf(`<text x="16" y="32" fill="#ffffff" font-family="monospace" font-size="24">%s</text>
`, escapeText(label)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeGeometry(sb *strings.Builder, g orb.Geometry, p Projector, stroke, fill string, opacity float64, style Style) {
	switch v := g.(type) {
	case orb.Point:
		x, y := p.Point(v)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#ffffff" stroke-width="1"/>
`, x, y, style.PointRadius, fill))
	case orb.MultiPoint:
		for _, pt := range v {
			writeGeometry(sb, pt, p, stroke, fill, opacity, style)
		}
	case orb.LineString:
		if len(v) < 2 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round" d="%s"/>
`, stroke, style.StrokeWidth, pathData(v, p, false)))
	case orb.MultiLineString:
		for _, ls := range v {
			writeGeometry(sb, ls, p, stroke, fill, opacity, style)
		}
	case orb.Polygon:
		var d strings.Builder
		for _, r := range v {
			if len(r) < 3 {
				continue
			}
			d.WriteString(pathData(orb.LineString(r), p, true))
		}
		if d.Len() == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path fill="%s" fill-opacity="%.2f" fill-rule="evenodd" stroke="none" d="%s"/>
`, fill, opacity, d.String()))
	case orb.MultiPolygon:
		for _, poly := range v {
			writeGeometry(sb, poly, p, stroke, fill, opacity, style)
		}
	case orb.Collection:
		for _, sub := range v {
			writeGeometry(sb, sub, p, stroke, fill, opacity, style)
		}
	}
}

func pathData(ls orb.LineString, p Projector, closed bool) string {
	var sb strings.Builder
	for i, pt := range ls {
		x, y := p.Point(pt)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}

func collectionBound(fc *geojson.FeatureCollection) orb.Bound {
	var b orb.Bound
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if first {
			b, first = f.Geometry.Bound(), false
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	return b
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// SVGSink writes one SVG per frame, all framed on the same bound.
type SVGSink struct {
	Dir    string
	Prefix string
	Width  int
	Height int
	Bound  orb.Bound
	Style  Style
}

func NewSVGSink(dir, prefix string, bound orb.Bound) *SVGSink {
	return &SVGSink{
		Dir:    dir,
		Prefix: prefix,
		Width:  800,
		Height: 800,
		Bound:  bound,
		Style:  DefaultStyle(),
	}
}

func (s *SVGSink) Render(year int, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	label := ""
	if year > 0 {
		label = fmt.Sprintf("%d", year)
	}
	svg := CollectionToSVG(fc, s.Bound, s.Width, s.Height, s.Style, label)
	return os.WriteFile(framePath(s.Dir, s.Prefix, "svg", year), []byte(svg), 0644)
}
