package render

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/blrviz/blrviz/internal/atlas"
	"github.com/paulmach/orb/geojson"
)

// Layer is one mapbox-gl style layer drawn from the frame's source.
type Layer struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Filter  []interface{}          `json:"filter,omitempty"`
	MinZoom float64                `json:"minzoom,omitempty"`
	Layout  map[string]interface{} `json:"layout,omitempty"`
	Paint   map[string]interface{} `json:"paint,omitempty"`
	// Popup lists properties shown when the pointer is over a feature of
	// this layer.
	Popup []string `json:"-"`
}

// WithPopup returns a copy of l that shows the name and fields of the
// feature under the pointer.
func (l Layer) WithPopup(fields ...string) Layer {
	l.Popup = append([]string(nil), fields...)
	return l
}

// LineLayer draws every line in the same colour, as the flyover view does.
func LineLayer(id, colour string, width float64) Layer {
	return Layer{
		ID:     id,
		Type:   "line",
		Filter: []interface{}{"==", []interface{}{"geometry-type"}, "LineString"},
		Layout: map[string]interface{}{"line-join": "round", "line-cap": "round"},
		Paint:  map[string]interface{}{"line-color": colour, "line-width": width},
	}
}

// PropertyLineLayer colours lines from their "stroke" property.
func PropertyLineLayer(id string, width float64) Layer {
	l := LineLayer(id, "#ffffff", width)
	l.Paint["line-color"] = []interface{}{"coalesce", []interface{}{"get", "stroke"}, "#ffffff"}
	return l
}

// FillLayer fills polygons from their "fill" and "fill-opacity" properties.
func FillLayer(id string, opacity float64) Layer {
	return Layer{
		ID:     id,
		Type:   "fill",
		Filter: []interface{}{"==", []interface{}{"geometry-type"}, "Polygon"},
		Paint: map[string]interface{}{
			"fill-color":   []interface{}{"coalesce", []interface{}{"get", "fill"}, "#ffffff"},
			"fill-opacity": []interface{}{"coalesce", []interface{}{"get", "fill-opacity"}, opacity},
		},
	}
}

// StopLayer draws points as white circles with a blue outline.
func StopLayer(id string, minZoom float64) Layer {
	return Layer{
		ID:      id,
		Type:    "circle",
		Filter:  []interface{}{"==", []interface{}{"geometry-type"}, "Point"},
		MinZoom: minZoom,
		Paint: map[string]interface{}{
			"circle-color":        "#ffffff",
			"circle-radius":       4,
			"circle-stroke-color": "#4264fb",
			"circle-stroke-width": 1,
		},
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="initial-scale=1,maximum-scale=1,user-scalable=no">
<link href="https://api.mapbox.com/mapbox-gl-js/v2.15.0/mapbox-gl.css" rel="stylesheet">
<script src="https://api.mapbox.com/mapbox-gl-js/v2.15.0/mapbox-gl.js"></script>
<style>
body { margin: 0; padding: 0; }
#map { position: absolute; top: 0; bottom: 0; width: 100%; }
#label { position: absolute; top: 12px; left: 12px; padding: 4px 10px; background: #fff; font: 600 20px monospace; }
</style>
</head>
<body>
<div id="map"></div>
{{if .Label}}<div id="label">{{.Label}}</div>{{end}}
<script>
const map = new mapboxgl.Map({
  accessToken: {{.Map.AccessToken}},
  container: "map",
  style: {{.Map.Style}},
  center: [{{index .Map.Center 0}}, {{index .Map.Center 1}}],
  zoom: {{.Map.Zoom}},
  minZoom: {{.Map.MinZoom}},
  maxZoom: {{.Map.MaxZoom}}
});
map.dragRotate.disable();
map.touchZoomRotate.disableRotation();
map.on("load", () => {
  map.addSource("frame", { type: "geojson", data: {{.Data}} });
  for (const layer of {{.Layers}}) {
    map.addLayer(Object.assign({ source: "frame" }, layer));
  }
  const popup = new mapboxgl.Popup({ closeButton: false, closeOnClick: false });
  for (const [id, fields] of Object.entries({{.Popups}})) {
    map.on("mouseenter", id, (e) => {
      map.getCanvas().style.cursor = "pointer";
      const f = e.features[0];
      const box = document.createElement("div");
      const title = document.createElement("strong");
      title.textContent = f.properties.name || f.properties.id || "";
      box.appendChild(title);
      for (const field of fields) {
        if (f.properties[field] === undefined) continue;
        const row = document.createElement("div");
        row.textContent = field + ": " + f.properties[field];
        box.appendChild(row);
      }
      const at = f.geometry.type === "Point" ? f.geometry.coordinates : e.lngLat;
      popup.setLngLat(at).setDOMContent(box).addTo(map);
    });
    map.on("mouseleave", id, () => {
      map.getCanvas().style.cursor = "";
      popup.remove();
    });
  }
});
</script>
</body>
</html>
`))

type page struct {
	Title  string
	Label  string
	Map    atlas.MapConfig
	Data   *geojson.FeatureCollection
	Layers []Layer
	Popups map[string][]string
}

func popups(layers []Layer) map[string][]string {
	out := make(map[string][]string)
	for _, l := range layers {
		if len(l.Popup) > 0 {
			out[l.ID] = l.Popup
		}
	}
	return out
}

// HTMLSink writes a standalone mapbox-gl page per frame. The access token is
// embedded in the page, so output is meant for local viewing.
type HTMLSink struct {
	Dir    string
	Prefix string
	Title  string
	Map    atlas.MapConfig
	Layers []Layer
}

func NewHTMLSink(dir, prefix, title string, cfg atlas.MapConfig, layers ...Layer) *HTMLSink {
	return &HTMLSink{Dir: dir, Prefix: prefix, Title: title, Map: cfg, Layers: layers}
}

func (s *HTMLSink) Render(year int, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	p := page{Title: s.Title, Map: s.Map, Data: fc, Layers: s.Layers, Popups: popups(s.Layers)}
	if year > 0 {
		p.Label = fmt.Sprintf("%d", year)
	}
	return writeFile(framePath(s.Dir, s.Prefix, "html", year), func(w io.Writer) error {
		return pageTemplate.Execute(w, p)
	})
}
