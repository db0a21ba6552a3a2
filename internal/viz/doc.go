// Package viz is the terminal frontend: a Bubble Tea program that draws the
// box, the particle and its fading trail on a braille canvas.
//
//   - [App]: the interactive program
//   - [Canvas]: braille pixel grid with per-cell colour and a text layer
//   - [Render3D]: perspective wireframe drawing through a [camera.Orbit]
//
// # Key Bindings
//
//	1-9        - Set the energy level
//	+/-        - Step the energy level
//	Tab        - Select a box dimension
//	[ ]        - Shrink / grow the selected dimension
//	E          - Type a value for the selected dimension
//	Arrows/hjkl- Orbit, z/Z zoom
//	T          - Cycle color themes
//	S          - Save an SVG snapshot
//	?          - Show help overlay
package viz
