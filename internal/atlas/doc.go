// Package atlas provides the core primitives shared by the map views.
//
// The package defines the read-only data model that every view filters and
// renders:
//
//   - [Feature]: a named geographic entity with an optional year
//   - [Dataset]: an ordered, immutable collection of features
//   - [MapConfig]: explicit map settings handed to render sinks
//
// # Example
//
//	ds, _ := dataset.LoadGeoJSON("data/blr-flyovers/data.json", opts)
//	visible := timeline.Filter(ds.Features(), 2010)
//	fc := atlas.Collection(visible)
//
// # Thread Safety
//
// A Dataset is never mutated after construction and may be shared freely.
// Features hold their geometry by reference; callers must treat geometry and
// properties as read-only.
package atlas
