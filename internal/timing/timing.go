// Package timing converts between seconds and frame indices at a fixed
// frame rate. All core stages share these conversions so that boundary
// rounding behaves identically everywhere.
package timing

import "math"

// epsilon absorbs float64 noise in seconds-domain timestamps so a time that
// is a frame boundary up to representation error lands on that frame, not
// the one before it.
const epsilon = 1e-9

// FrameAt returns the frame index containing time sec at the given rate.
// Negative times map to frame 0.
func FrameAt(sec float64, fps int) int {
	if sec <= 0 {
		return 0
	}
	return int(math.Floor(sec*float64(fps) + epsilon))
}

// TimeAt returns the timestamp in seconds of the given frame index.
func TimeAt(frame, fps int) float64 {
	if frame <= 0 {
		return 0
	}
	return float64(frame) / float64(fps)
}

// FramesIn returns the number of whole frames covering a duration in seconds,
// rounding up so partial trailing frames are still rendered.
func FramesIn(sec float64, fps int) int {
	if sec <= 0 {
		return 0
	}
	return int(math.Ceil(sec*float64(fps) - epsilon))
}
