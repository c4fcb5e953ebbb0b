// Package zoomimage provides the geometry shared by the zoomimage engines.
//
// # Overview
//
// zoomimage lets a viewer pan, zoom and rotate an arbitrarily large image
// while detail tiles for the visible region are decoded in the background.
// The work is split into two engines:
//
//   - zoom.Engine maintains a base transform (derived from the content fit
//     policy) and a user transform (driven by gestures and animations) and
//     enforces scale and offset bounds.
//   - subsampling.TileManager picks a pyramid level for the current scale,
//     partitions the source image into tiles and decodes the visible ones
//     on a bounded worker pool.
//
// The viewer package wires both engines together with the gesture package
// behind an explicit Start/Stop lifecycle.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Rotations are clockwise, in multiples of 90 degrees
//
// Three sizes are distinct: the container size (viewport), the content size
// (the unscaled displayed content) and the origin size (true source pixels,
// which may exceed the content size). The origin size drives pyramid
// planning, the content size drives base transform geometry.
//
// # Threading
//
// Transform state is single-writer. Gesture ticks, discrete operations and
// animation frames must all be issued from one owner goroutine. Tile decodes
// run on worker goroutines and are committed back on the owner goroutine.
package zoomimage

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
