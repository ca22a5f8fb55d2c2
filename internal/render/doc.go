// Package render turns feature collections into something a person can look
// at.
//
//   - [Sink]: receives a filtered collection every time the year changes
//   - [GeoJSONSink], [NDJSONSink], [SVGSink], [HTMLSink]: file and stream sinks
//   - [Canvas]: Braille-based pixel canvas used by the terminal views
//   - [Projector]: fits a Web-Mercator view of a bound into a pixel box
//
// Sinks take their map settings as an explicit [atlas.MapConfig]; nothing in
// this package reads global state.
package render
