// Package viz is the terminal front end: a Bubble Tea program that steps a
// scene at 60 Hz and draws every body as an outline on a braille [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step
//	I     - Apply the scene impulse to every tracked body
//	R     - Rebuild the scene
//	T     - Cycle color themes
//	Q     - Quit
//
// Left click on the canvas spawns a body under the cursor; right click
// applies the impulse.
package viz
