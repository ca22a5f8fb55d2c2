// Package timeline implements the year threshold that drives the flyover view.
//
//   - [Filter]: pure selection of features completed by a given year
//   - [Range]: the closed year interval a threshold lives in
//   - [Driver]: the autoplay state machine that sweeps the threshold
//
// # Event loop
//
// A Driver is owned by a single bubbletea model and is only touched from its
// Update method, so it carries no locks. Ticks are scheduled as tea.Cmd values
// and carry a sequence number; stopping bumps the sequence so a tick that was
// already in flight is discarded when it arrives.
package timeline
