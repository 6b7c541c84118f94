// Package viz draws particle positions in the terminal.
//
// [Canvas] is a Braille dot grid that [Canvas.Plot] fills from engine
// position views. [LiveModel] is a Bubble Tea program that steps an engine
// on every tick and redraws it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the engine from its initial seed
//	Q     - Quit
package viz
