// Package viz is the terminal renderer.
//
// [Model] is a Bubble Tea program that owns a [scene.Simulation] and advances
// it by the wall-clock time between ticks. The particle, its trail and the
// coordinate axes are projected through a perspective [Camera] onto a Braille
// [Canvas]; with follow on the camera uses the pose from the frame, otherwise
// a [scene.Orbit] circles the guiding center.
//
// # Key Bindings
//
//	tab / shift+tab  select parameter
//	↑ k / ↓ j        adjust parameter
//	f                toggle follow camera
//	← h / → l        orbit yaw
//	pgup / pgdown    orbit pitch
//	+ / -            zoom
//	space            pause
//	r                reset time and trail
//	t                cycle theme
//	g                start/stop GIF recording
//	s                save SVG snapshot
//	?                help
//
// Recordings and snapshots go to the configured output directory.
package viz
