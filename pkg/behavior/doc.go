// Package behavior drives one browser session through a human-paced viewing
// routine: open the video, watch for a while, like it, scroll to the comments,
// post a comment, then keep watching with occasional pauses and seeks.
//
// # Phases
//
// A session moves through a fixed sequence of phases:
//
//	Opening -> PreCommentWatch -> Liking -> Scrolling -> Commenting -> FreeWatch -> Closed
//
// Every transition is driven by elapsed time or by one browser action, never
// by what the page shows. Liking and Commenting are allowed to fail: the
// failure is recorded and logged and the session moves on. A failure to open
// or navigate ends the session early, but the browser is released either way.
//
// # Time and randomness
//
// The Simulator never reads the wall clock or a global random source
// directly. It takes a Clock and a Rand, so tests can run a ten-minute session
// in microseconds with a fake clock and reproduce every random draw from a
// fixed seed. Sleeps honour context cancellation, and the context is checked
// at every phase boundary and every FreeWatch tick.
package behavior
