// Package viz provides the terminal front end for the map views.
//
// Every view is a Bubble Tea model drawn on a braille canvas from the
// render package:
//
//   - [TimelineModel]: the flyover timeline with autoplay and a year slider
//   - [OverlayModel]: static layers such as the metro feeder network or
//     the bus trip heatmap
//   - [App]: a menu for picking a view
//
// # Key Bindings
//
//	Space     - Play/Pause the timeline
//	Left/H    - One year back (stops playback)
//	Right/L   - One year forward (stops playback)
//	Home/End  - First or last year
//	1-9       - Toggle overlay layers
//	T         - Cycle color themes
//	?         - Show help overlay
//	Q         - Quit
package viz
